package web

import (
	"net/url"
	"strings"
	"testing"
)

func TestRegisterLogsUserIn(t *testing.T) {
	ts, d := newTestServer(t, nil)
	c := newTestClient(t)

	register(t, c, ts.URL, "alice")

	if n := countRows(t, d, "users"); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
	if n := countRows(t, d, "sessions"); n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}

	body := readBody(t, getPage(t, c, ts.URL+"/campgrounds"))
	if !strings.Contains(body, "Welcome to CampFinder, alice") {
		t.Error("missing welcome flash")
	}

	// Flash messages show exactly once.
	body = readBody(t, getPage(t, c, ts.URL+"/campgrounds"))
	if strings.Contains(body, "Welcome to CampFinder, alice") {
		t.Error("welcome flash shown twice")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts, d := newTestServer(t, nil)

	first := newTestClient(t)
	register(t, first, ts.URL, "alice")

	second := newTestClient(t)
	resp := postForm(t, second, ts.URL+"/users/register", url.Values{
		"username": {"alice"},
		"password": {"another-password"},
	})
	wantRedirect(t, resp, "/users/register")

	if n := countRows(t, d, "users"); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}

	body := readBody(t, getPage(t, second, ts.URL+"/users/register"))
	if !strings.Contains(body, "That username is already taken") {
		t.Error("missing duplicate-username flash")
	}
}

func TestRegisterValidation(t *testing.T) {
	ts, d := newTestServer(t, nil)
	c := newTestClient(t)

	// Password below the minimum length.
	resp := postForm(t, c, ts.URL+"/users/register", url.Values{
		"username": {"alice"},
		"password": {"short"},
	})
	wantRedirect(t, resp, "/users/register")

	if n := countRows(t, d, "users"); n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
}

func TestLoginAndLogout(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	// Register, then log out to test a clean login.
	c := newTestClient(t)
	register(t, c, ts.URL, "alice")
	wantRedirect(t, getPage(t, c, ts.URL+"/users/logout"), "/campgrounds")

	resp := postForm(t, c, ts.URL+"/users/login", url.Values{
		"username": {"alice"},
		"password": {"test-password"},
	})
	wantRedirect(t, resp, "/campgrounds")

	body := readBody(t, getPage(t, c, ts.URL+"/campgrounds"))
	if !strings.Contains(body, "Welcome back, alice") {
		t.Error("missing login flash")
	}

	// Logged in users can reach guarded pages.
	resp = getPage(t, c, ts.URL+"/campgrounds/new")
	if resp.StatusCode != 200 {
		t.Errorf("new page status = %d, want 200", resp.StatusCode)
	}

	wantRedirect(t, getPage(t, c, ts.URL+"/users/logout"), "/campgrounds")

	// And not after logout.
	wantRedirect(t, getPage(t, c, ts.URL+"/campgrounds/new"), "/users/login")
}

func TestLoginInvalidPassword(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	c := newTestClient(t)
	register(t, c, ts.URL, "alice")
	wantRedirect(t, getPage(t, c, ts.URL+"/users/logout"), "/campgrounds")

	resp := postForm(t, c, ts.URL+"/users/login", url.Values{
		"username": {"alice"},
		"password": {"wrong-password"},
	})
	wantRedirect(t, resp, "/users/login")

	body := readBody(t, getPage(t, c, ts.URL+"/users/login"))
	if !strings.Contains(body, "Invalid username or password") {
		t.Error("missing invalid-credentials flash")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	c := newTestClient(t)

	resp := postForm(t, c, ts.URL+"/users/login", url.Values{
		"username": {"nobody"},
		"password": {"some-password"},
	})
	wantRedirect(t, resp, "/users/login")
}

func TestPasswordChange(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	c := newTestClient(t)
	register(t, c, ts.URL, "alice")

	resp := postForm(t, c, ts.URL+"/settings/password", url.Values{
		"password": {"brand-new-password"},
	})
	wantRedirect(t, resp, "/settings")

	// Old password no longer works, new one does.
	wantRedirect(t, getPage(t, c, ts.URL+"/users/logout"), "/campgrounds")

	resp = postForm(t, c, ts.URL+"/users/login", url.Values{
		"username": {"alice"},
		"password": {"test-password"},
	})
	wantRedirect(t, resp, "/users/login")

	resp = postForm(t, c, ts.URL+"/users/login", url.Values{
		"username": {"alice"},
		"password": {"brand-new-password"},
	})
	wantRedirect(t, resp, "/campgrounds")
}

func TestSettingsRequiresLogin(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	c := newTestClient(t)

	wantRedirect(t, getPage(t, c, ts.URL+"/settings"), "/users/login")
}
