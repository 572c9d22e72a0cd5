package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookieName = "cf_flash"

// Flash message categories.
const (
	flashError   = "error"
	flashSuccess = "success"
)

// flashMessage is a one-shot, category-tagged notice for the next
// rendered response.
type flashMessage struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// flashStore queues flash messages in an HMAC-signed cookie. Messages
// are drained (read and deleted) by the next rendered response; a
// cookie with a bad signature is dropped silently.
type flashStore struct {
	secret []byte
}

func newFlashStore(secret string) *flashStore {
	return &flashStore{secret: []byte(secret)}
}

// Add appends a message to the queue cookie.
func (s *flashStore) Add(w http.ResponseWriter, r *http.Request, category, text string) {
	queue := append(s.read(r), flashMessage{Category: category, Text: text})

	data, err := json.Marshal(queue)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    s.sign(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Drain returns all queued messages and deletes the cookie, so each
// message is visible exactly once.
func (s *flashStore) Drain(w http.ResponseWriter, r *http.Request) []flashMessage {
	if _, err := r.Cookie(flashCookieName); err != nil {
		return nil
	}

	queue := s.read(r)

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return queue
}

// read verifies and decodes the queue from the request cookie.
func (s *flashStore) read(r *http.Request) []flashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	// Format: base64(value).base64(signature)
	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}

	value, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(value)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil
	}

	var queue []flashMessage
	if err := json.Unmarshal(value, &queue); err != nil {
		return nil
	}

	return queue
}

func (s *flashStore) sign(value []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(value)
	sig := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(value) +
		"." + base64.RawURLEncoding.EncodeToString(sig)
}
