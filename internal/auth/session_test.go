package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rvanderp/campfinder/internal/user"
)

func createTestUser(t *testing.T, users *user.Store, username string) *user.User {
	t.Helper()
	u, err := users.Create(username, "some-password")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// sessionCookie extracts the session cookie from a recorded response.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionCreateAndValidate(t *testing.T) {
	d := testDB(t)
	u := createTestUser(t, user.NewStore(d), "alice")
	sessions := NewSessionStore(d)

	w := httptest.NewRecorder()
	if err := sessions.Create(w, u.ID); err != nil {
		t.Fatalf("create session: %v", err)
	}

	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookie)

	userID, err := sessions.Validate(r)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != u.ID {
		t.Errorf("user id = %d, want %d", userID, u.ID)
	}
}

func TestSessionValidateNoCookie(t *testing.T) {
	d := testDB(t)
	sessions := NewSessionStore(d)

	r := httptest.NewRequest("GET", "/", nil)
	if _, err := sessions.Validate(r); err == nil {
		t.Fatal("expected error without cookie")
	}
}

func TestSessionValidateUnknownToken(t *testing.T) {
	d := testDB(t)
	sessions := NewSessionStore(d)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "bogus"})

	if _, err := sessions.Validate(r); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

func TestSessionExpiry(t *testing.T) {
	d := testDB(t)
	u := createTestUser(t, user.NewStore(d), "alice")
	sessions := NewSessionStore(d)

	// Insert an already-expired session directly.
	if _, err := d.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		"expired-token", u.ID, time.Now().Add(-time.Hour),
	); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "expired-token"})

	if _, err := sessions.Validate(r); err == nil {
		t.Fatal("expected error for expired session")
	}

	// The expired row is removed on validation.
	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = 'expired-token'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Error("expired session row still present")
	}
}

func TestSessionDestroy(t *testing.T) {
	d := testDB(t)
	u := createTestUser(t, user.NewStore(d), "alice")
	sessions := NewSessionStore(d)

	w := httptest.NewRecorder()
	if err := sessions.Create(w, u.ID); err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookie := sessionCookie(t, w)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(cookie)

	w2 := httptest.NewRecorder()
	if err := sessions.Destroy(w2, r); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	if _, err := sessions.Validate(r); err == nil {
		t.Fatal("session still valid after destroy")
	}
}

func TestSessionCleanup(t *testing.T) {
	d := testDB(t)
	u := createTestUser(t, user.NewStore(d), "alice")
	sessions := NewSessionStore(d)

	if _, err := d.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		"stale", u.ID, time.Now().Add(-time.Hour),
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := d.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		"fresh", u.ID, time.Now().Add(time.Hour),
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := sessions.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("sessions remaining = %d, want 1", count)
	}
}
