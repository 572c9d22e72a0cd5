package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/rvanderp/campfinder/internal/auth"
)

// passkeyHandlers holds WebAuthn-related HTTP handlers. Passkeys are
// the second credential-verification path next to password login.
type passkeyHandlers struct {
	wan *webauthn.WebAuthn
	srv *Server

	// In-memory session data for in-flight WebAuthn ceremonies.
	// regSessions is keyed by user ID for registration.
	// loginSessionData holds a single login ceremony — only one
	// concurrent passkey login is supported.
	mu               sync.Mutex
	regSessions      map[int64]*webauthn.SessionData
	loginSessionData *webauthn.SessionData
}

func newPasskeyHandlers(baseURL string, srv *Server) (*passkeyHandlers, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	wan, err := webauthn.New(&webauthn.Config{
		RPDisplayName: "CampFinder",
		RPID:          parsed.Hostname(),
		RPOrigins:     []string{baseURL},
	})
	if err != nil {
		return nil, err
	}

	return &passkeyHandlers{
		wan:         wan,
		srv:         srv,
		regSessions: make(map[int64]*webauthn.SessionData),
	}, nil
}

// handleBeginRegistration starts passkey registration from the
// settings page. The route is behind requireLogin.
func (h *passkeyHandlers) handleBeginRegistration(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	creds, err := h.srv.passkeys.WebAuthnCredentials(u.ID)
	if err != nil {
		slog.Error("loading credentials", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	pkUser := auth.NewPasskeyUser(u.Username, creds)

	// Exclude existing credentials so the user doesn't re-register the same key
	excludeList := make([]protocol.CredentialDescriptor, len(creds))
	for i, c := range creds {
		excludeList[i] = c.Descriptor()
	}

	creation, session, err := h.wan.BeginRegistration(pkUser,
		webauthn.WithExclusions(excludeList),
	)
	if err != nil {
		slog.Error("beginning registration", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.regSessions[u.ID] = session
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(creation); err != nil {
		slog.Error("encoding registration options", "err", err)
	}
}

// handleFinishRegistration completes passkey registration.
func (h *passkeyHandlers) handleFinishRegistration(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	h.mu.Lock()
	session, ok := h.regSessions[u.ID]
	if ok {
		delete(h.regSessions, u.ID)
	}
	h.mu.Unlock()

	if !ok {
		http.Error(w, "No registration in progress", http.StatusBadRequest)
		return
	}

	creds, err := h.srv.passkeys.WebAuthnCredentials(u.ID)
	if err != nil {
		slog.Error("loading credentials", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	pkUser := auth.NewPasskeyUser(u.Username, creds)

	credential, err := h.wan.FinishRegistration(pkUser, *session, r)
	if err != nil {
		slog.Error("finishing registration", "err", err)
		http.Error(w, "Registration failed", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "Passkey"
	}

	if err := h.srv.passkeys.Save(u.ID, name, credential); err != nil {
		slog.Error("saving credential", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("encoding response", "err", err)
	}
}

// handleBeginLogin starts passkey login (discoverable/conditional).
func (h *passkeyHandlers) handleBeginLogin(w http.ResponseWriter, r *http.Request) {
	assertion, session, err := h.wan.BeginDiscoverableLogin()
	if err != nil {
		slog.Error("beginning passkey login", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.loginSessionData = session
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(assertion); err != nil {
		slog.Error("encoding login options", "err", err)
	}
}

// handleFinishLogin completes passkey login and creates a session.
func (h *passkeyHandlers) handleFinishLogin(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	session := h.loginSessionData
	h.loginSessionData = nil
	h.mu.Unlock()

	if session == nil {
		http.Error(w, "No login in progress", http.StatusBadRequest)
		return
	}

	var loggedInUsername string

	handler := func(rawID, userHandle []byte) (webauthn.User, error) {
		// userHandle is the WebAuthnID (sha256 of the username).
		// Try all registered usernames to find the matching user.
		usernames, nameErr := h.srv.users.AllUsernames()
		if nameErr != nil {
			return nil, nameErr
		}

		for _, username := range usernames {
			pkUser := auth.NewPasskeyUser(username, nil)
			if string(pkUser.WebAuthnID()) == string(userHandle) {
				u, userErr := h.srv.users.GetByUsername(username)
				if userErr != nil {
					return nil, userErr
				}
				creds, credErr := h.srv.passkeys.WebAuthnCredentials(u.ID)
				if credErr != nil {
					return nil, credErr
				}
				loggedInUsername = username
				return auth.NewPasskeyUser(username, creds), nil
			}
		}

		return nil, protocol.ErrBadRequest.WithDetails("unknown user")
	}

	_, _, err := h.wan.FinishPasskeyLogin(handler, *session, r)
	if err != nil {
		slog.Error("finishing passkey login", "err", err)
		http.Error(w, "Login failed", http.StatusUnauthorized)
		return
	}

	u, err := h.srv.users.GetByUsername(loggedInUsername)
	if err != nil {
		slog.Error("resolving passkey user", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if err := h.srv.sessions.Create(w, u.ID); err != nil {
		slog.Error("creating session", "err", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("login success", "user", u.Username, "method", "passkey")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("encoding response", "err", err)
	}
}
