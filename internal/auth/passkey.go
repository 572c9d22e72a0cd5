package auth

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/webauthn"
)

// PasskeyUser implements webauthn.User for a campfinder account.
type PasskeyUser struct {
	username    string
	credentials []webauthn.Credential
}

// NewPasskeyUser creates a PasskeyUser for the given username.
func NewPasskeyUser(username string, credentials []webauthn.Credential) *PasskeyUser {
	return &PasskeyUser{username: username, credentials: credentials}
}

// WebAuthnID returns a stable user handle derived from the username.
func (u *PasskeyUser) WebAuthnID() []byte {
	h := sha256.Sum256([]byte(u.username))
	return h[:]
}

// WebAuthnName returns the username.
func (u *PasskeyUser) WebAuthnName() string { return u.username }

// WebAuthnDisplayName returns the username.
func (u *PasskeyUser) WebAuthnDisplayName() string { return u.username }

// WebAuthnCredentials returns the stored credentials.
func (u *PasskeyUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }

// PasskeyStore manages passkey credentials in SQLite.
type PasskeyStore struct {
	db *sql.DB
}

// NewPasskeyStore creates a passkey store.
func NewPasskeyStore(db *sql.DB) *PasskeyStore {
	return &PasskeyStore{db: db}
}

// StoredCredential is a passkey credential with metadata.
type StoredCredential struct {
	ID         string
	UserID     int64
	Name       string
	Credential webauthn.Credential
}

// Save stores a new passkey credential for a user.
func (s *PasskeyStore) Save(userID int64, name string, cred *webauthn.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}

	id := fmt.Sprintf("%x", cred.ID)
	if _, err := s.db.Exec(
		"INSERT INTO passkey_credentials (id, user_id, name, credential_json) VALUES (?, ?, ?, ?)",
		id, userID, name, string(data),
	); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	return nil
}

// ListByUserID returns all credentials for the given user.
func (s *PasskeyStore) ListByUserID(userID int64) ([]StoredCredential, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, credential_json FROM passkey_credentials WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var result []StoredCredential
	for rows.Next() {
		var sc StoredCredential
		var data string
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Name, &data); err != nil {
			return nil, fmt.Errorf("scanning credential: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &sc.Credential); err != nil {
			return nil, fmt.Errorf("unmarshaling credential: %w", err)
		}
		result = append(result, sc)
	}

	return result, rows.Err()
}

// WebAuthnCredentials returns just the webauthn.Credential slice for a user.
func (s *PasskeyStore) WebAuthnCredentials(userID int64) ([]webauthn.Credential, error) {
	stored, err := s.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	creds := make([]webauthn.Credential, len(stored))
	for i, sc := range stored {
		creds[i] = sc.Credential
	}

	return creds, nil
}

// Delete removes a credential owned by the given user.
func (s *PasskeyStore) Delete(id string, userID int64) error {
	result, err := s.db.Exec(
		"DELETE FROM passkey_credentials WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("credential not found")
	}

	return nil
}
