package web

import (
	"net/http"
	"strings"
)

// methodOverride translates POST requests carrying a _method form or
// query parameter into PUT/PATCH/DELETE, so plain HTML forms can drive
// the full route table. It also parses the form body, so every
// downstream handler sees a populated r.Form.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				m := r.PostForm.Get("_method")
				if m == "" {
					m = r.URL.Query().Get("_method")
				}
				switch strings.ToUpper(m) {
				case http.MethodPut, http.MethodPatch, http.MethodDelete:
					r.Method = strings.ToUpper(m)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// withIdentity resolves the session cookie to a user and attaches it to
// the request context. Resolution failure leaves the identity empty —
// never an error; the guards decide the consequence.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, err := s.sessions.Validate(r); err == nil {
			if u, err := s.users.GetByID(userID); err == nil {
				r = r.WithContext(withCurrentUser(r.Context(), u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin redirects unauthenticated requests to the login page
// with an error flash. The wrapped handler never runs for them.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			s.flash.Add(w, r, flashError, "You must be logged in to do that")
			http.Redirect(w, r, "/users/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirectBack sends the client to the referring page, falling back to
// the given path.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Referer()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
