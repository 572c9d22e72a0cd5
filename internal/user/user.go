// Package user provides the user account model and data access.
package user

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned when a user lookup matches nothing.
var ErrNotFound = errors.New("user not found")

// User represents a registered account. PasswordHash is never rendered
// or logged; the plaintext password exists only inside Create, Verify
// and UpdatePassword calls.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store manages user accounts in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a user store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create registers a new user with a bcrypt-hashed password.
func (s *Store) Create(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, string(hash),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("username already taken: %s", username)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user ID: %w", err)
	}

	return s.GetByID(id)
}

// GetByID returns a user by ID.
func (s *Store) GetByID(id int64) (*User, error) {
	return s.get("SELECT id, username, password_hash, created_at FROM users WHERE id = ?", id)
}

// GetByUsername returns a user by username (case-insensitive).
func (s *Store) GetByUsername(username string) (*User, error) {
	return s.get("SELECT id, username, password_hash, created_at FROM users WHERE username = ?", strings.TrimSpace(username))
}

func (s *Store) get(query string, arg interface{}) (*User, error) {
	var u User
	err := s.db.QueryRow(query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// UpdatePassword replaces the stored credential. This is the only
// structural mutation users support.
func (s *Store) UpdatePassword(id int64, password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	result, err := s.db.Exec(
		"UPDATE users SET password_hash = ? WHERE id = ?", string(hash), id,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// AllUsernames returns every registered username.
// Used by passkey login to resolve a user handle.
func (s *Store) AllUsernames() ([]string, error) {
	rows, err := s.db.Query("SELECT username FROM users")
	if err != nil {
		return nil, fmt.Errorf("listing usernames: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning username: %w", err)
		}
		usernames = append(usernames, name)
	}

	return usernames, rows.Err()
}
