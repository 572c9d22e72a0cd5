// Package web provides the HTTP server and handlers for campfinder.
package web

import (
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/rvanderp/campfinder/internal/auth"
	"github.com/rvanderp/campfinder/internal/campground"
	"github.com/rvanderp/campfinder/internal/comment"
	"github.com/rvanderp/campfinder/internal/geocode"
	"github.com/rvanderp/campfinder/internal/logging"
	"github.com/rvanderp/campfinder/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options configures the web server.
type Options struct {
	SessionSecret string
	BaseURL       string
	Geocoder      geocode.Geocoder
	Verifier      auth.Verifier // defaults to the local bcrypt verifier
}

// Server is the campfinder HTTP server.
type Server struct {
	users       *user.Store
	sessions    *auth.SessionStore
	passkeys    *auth.PasskeyStore
	verifier    auth.Verifier
	campgrounds *campground.Repository
	comments    *comment.Repository
	geocoder    geocode.Geocoder
	flash       *flashStore
	validate    *validator.Validate
	templates   *template.Template
	router      chi.Router
}

// NewServer creates a web server over the given database.
func NewServer(db *sql.DB, opts Options) (*Server, error) {
	if len(opts.SessionSecret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	if opts.Geocoder == nil {
		return nil, fmt.Errorf("geocoder is required")
	}

	funcMap := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	users := user.NewStore(db)

	verifier := opts.Verifier
	if verifier == nil {
		verifier = auth.NewLocalVerifier(users)
	}

	s := &Server{
		users:       users,
		sessions:    auth.NewSessionStore(db),
		passkeys:    auth.NewPasskeyStore(db),
		verifier:    verifier,
		campgrounds: campground.NewRepository(db),
		comments:    comment.NewRepository(db),
		geocoder:    opts.Geocoder,
		flash:       newFlashStore(opts.SessionSecret),
		validate:    validator.New(),
		templates:   tmpl,
	}

	pk, err := newPasskeyHandlers(opts.BaseURL, s)
	if err != nil {
		return nil, fmt.Errorf("configuring passkeys: %w", err)
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	r := chi.NewRouter()

	// Fixed pipeline order: recover, log, method override (parses the
	// body), identity attachment, then dispatch.
	r.Use(chimw.Recoverer)
	r.Use(logging.RequestLogger)
	r.Use(methodOverride)
	r.Use(s.withIdentity)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	r.Get("/", s.handleLanding)
	r.Get("/health", s.handleHealth)

	r.Route("/campgrounds", func(r chi.Router) {
		r.Get("/", s.handleCampgroundIndex)
		r.With(s.requireLogin).Post("/", s.handleCampgroundCreate)
		r.With(s.requireLogin).Get("/new", s.handleCampgroundNew)
		r.Get("/{campgroundID}", s.handleCampgroundShow)
		r.With(s.requireLogin).Get("/{campgroundID}/edit", s.handleCampgroundEdit)
		r.With(s.requireLogin).Put("/{campgroundID}", s.handleCampgroundUpdate)
		r.With(s.requireLogin).Delete("/{campgroundID}", s.handleCampgroundDelete)

		r.Route("/{campgroundID}/comments", func(r chi.Router) {
			r.Use(s.requireLogin)
			r.Get("/new", s.handleCommentNew)
			r.Post("/", s.handleCommentCreate)
			r.Get("/{commentID}/edit", s.handleCommentEdit)
			r.Put("/{commentID}", s.handleCommentUpdate)
			r.Delete("/{commentID}", s.handleCommentDelete)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/register", s.handleRegisterPage)
		r.Post("/register", s.handleRegisterSubmit)
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLoginSubmit)
		r.Get("/logout", s.handleLogout)
	})

	r.Get("/searchResults", s.handleSearch)

	r.With(s.requireLogin).Get("/settings", s.handleSettings)
	r.With(s.requireLogin).Post("/settings/password", s.handlePasswordChange)
	r.With(s.requireLogin).Post("/settings/passkey/delete", s.handlePasskeyDelete)

	r.With(s.requireLogin).Post("/passkey/register/begin", pk.handleBeginRegistration)
	r.With(s.requireLogin).Post("/passkey/register/finish", pk.handleFinishRegistration)
	r.Post("/passkey/login/begin", pk.handleBeginLogin)
	r.Post("/passkey/login/finish", pk.handleFinishLogin)

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	slog.Info("campfinder server is listening", "addr", addr)
	return http.ListenAndServe(addr, s)
}

// handleHealth reports readiness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// render executes a page template with the shared view context:
// current identity plus drained flash messages. Draining here means a
// queued message is visible on exactly one rendered response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	vd := viewData{
		CurrentUser: currentUser(r),
		Data:        data,
	}
	for _, m := range s.flash.Drain(w, r) {
		switch m.Category {
		case flashSuccess:
			vd.Success = append(vd.Success, m.Text)
		default:
			vd.Error = append(vd.Error, m.Text)
		}
	}

	if err := s.templates.ExecuteTemplate(w, name, vd); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}
