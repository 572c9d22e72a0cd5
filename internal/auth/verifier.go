// Package auth provides credential verification and session management.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rvanderp/campfinder/internal/user"
)

// ErrInvalidCredentials is returned for a bad username or password.
// Callers must not distinguish which half was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Verifier checks a username/password pair and resolves it to a user.
// Implementations are selected at startup; the login handler only sees
// this interface.
type Verifier interface {
	Verify(username, password string) (*user.User, error)
}

// LocalVerifier verifies passwords against bcrypt hashes in the user store.
type LocalVerifier struct {
	users *user.Store
}

// NewLocalVerifier creates a verifier backed by the given user store.
func NewLocalVerifier(users *user.Store) *LocalVerifier {
	return &LocalVerifier{users: users}
}

// Verify compares the password against the stored hash.
func (v *LocalVerifier) Verify(username, password string) (*user.User, error) {
	u, err := v.users.GetByUsername(username)
	if errors.Is(err, user.ErrNotFound) {
		// Burn a comparison anyway so unknown users take as long as bad passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// dummyHash is a valid bcrypt hash of an empty string.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
