package web

import (
	"context"
	"net/http"

	"github.com/rvanderp/campfinder/internal/user"
)

type contextKey int

const userContextKey contextKey = iota

// withCurrentUser attaches the resolved identity to the request context.
func withCurrentUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// currentUser returns the authenticated user for this request, or nil.
func currentUser(r *http.Request) *user.User {
	u, _ := r.Context().Value(userContextKey).(*user.User)
	return u
}

// viewData is the rendering context every template observes:
// the current identity, drained flash messages, and the page payload.
type viewData struct {
	CurrentUser *user.User
	Error       []string
	Success     []string
	Data        interface{}
}
