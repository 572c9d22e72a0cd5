package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rvanderp/campfinder/internal/auth"
)

// handleRegisterPage renders the registration form.
func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", nil)
}

// handleRegisterSubmit creates an account and logs the new user in.
func (s *Server) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, "/users/register", http.StatusSeeOther)
		return
	}

	u, err := s.users.Create(form.Username, form.Password)
	if err != nil {
		if strings.Contains(err.Error(), "already taken") {
			s.flash.Add(w, r, flashError, "That username is already taken")
		} else {
			slog.Error("creating user", "err", err)
			s.flash.Add(w, r, flashError, "Something went wrong creating your account")
		}
		http.Redirect(w, r, "/users/register", http.StatusSeeOther)
		return
	}

	if err := s.sessions.Create(w, u.ID); err != nil {
		slog.Error("creating session", "user", u.ID, "err", err)
		s.flash.Add(w, r, flashSuccess, "Account created, please log in")
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, fmt.Sprintf("Welcome to CampFinder, %s", u.Username))
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// handleLoginPage renders the login form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", nil)
}

// handleLoginSubmit verifies credentials via the configured verifier
// and starts a session.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: strings.TrimSpace(r.FormValue("username")),
		Password: r.FormValue("password"),
	}
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}

	u, err := s.verifier.Verify(form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.flash.Add(w, r, flashError, "Invalid username or password")
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("verifying credentials", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong logging you in")
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}

	if err := s.sessions.Create(w, u.ID); err != nil {
		slog.Error("creating session", "user", u.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong logging you in")
		http.Redirect(w, r, "/users/login", http.StatusSeeOther)
		return
	}

	slog.Info("login success", "user", u.Username, "method", "password")
	s.flash.Add(w, r, flashSuccess, fmt.Sprintf("Welcome back, %s", u.Username))
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// handleLogout destroys the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(w, r); err != nil {
		slog.Error("destroying session", "err", err)
	}
	s.flash.Add(w, r, flashSuccess, "Logged you out")
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// settingsData backs the settings page.
type settingsData struct {
	Passkeys []passkeyItem
}

type passkeyItem struct {
	ID   string
	Name string
}

// handleSettings renders password and passkey management.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	stored, err := s.passkeys.ListByUserID(currentUser(r).ID)
	if err != nil {
		slog.Error("loading passkeys", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong loading your passkeys")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}

	passkeys := make([]passkeyItem, len(stored))
	for i, sc := range stored {
		passkeys[i] = passkeyItem{ID: sc.ID, Name: sc.Name}
	}

	s.render(w, r, "settings.html", settingsData{Passkeys: passkeys})
}

// handlePasswordChange replaces the current user's credential.
func (s *Server) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	form := passwordForm{Password: r.FormValue("password")}
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	if err := s.users.UpdatePassword(currentUser(r).ID, form.Password); err != nil {
		slog.Error("updating password", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong changing your password")
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Password changed")
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// handlePasskeyDelete removes one of the current user's passkeys.
func (s *Server) handlePasskeyDelete(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	if id == "" {
		s.flash.Add(w, r, flashError, "Missing credential ID")
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	if err := s.passkeys.Delete(id, currentUser(r).ID); err != nil {
		slog.Error("deleting passkey", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong deleting the passkey")
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Passkey removed")
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
