package web

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rvanderp/campfinder/internal/db"
	"github.com/rvanderp/campfinder/internal/geocode"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeGeocoder returns a canned result, or a fixed error when set.
type fakeGeocoder struct {
	result *geocode.Result
	err    error
}

func (f *fakeGeocoder) Lookup(address string) (*geocode.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &geocode.Result{
		Latitude:         37.8651,
		Longitude:        -119.5383,
		FormattedAddress: address + ", USA",
	}, nil
}

// newTestServer starts a server over a temp database. A nil geocoder
// gets the default fake, which resolves every address.
func newTestServer(t *testing.T, geo geocode.Geocoder) (*httptest.Server, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if cerr := d.Close(); cerr != nil {
			t.Errorf("close db: %v", cerr)
		}
	})

	if geo == nil {
		geo = &fakeGeocoder{}
	}

	s, err := NewServer(d, Options{
		SessionSecret: testSecret,
		BaseURL:       "http://localhost:8080",
		Geocoder:      geo,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts, d
}

// newTestClient returns a cookie-aware client that does not follow
// redirects, so tests can assert on Location headers directly.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, c *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getPage(t *testing.T, c *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := c.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("location = %q, want %q", got, location)
	}
}

// register creates an account through the form, which also logs the
// client in via the session cookie.
func register(t *testing.T, c *http.Client, base, username string) {
	t.Helper()
	resp := postForm(t, c, base+"/users/register", url.Values{
		"username": {username},
		"password": {"test-password"},
	})
	wantRedirect(t, resp, "/campgrounds")
}

// createCampground posts the create form and returns the show URL path
// of the new campground.
func createCampground(t *testing.T, c *http.Client, base, name string) string {
	t.Helper()
	resp := postForm(t, c, base+"/campgrounds", url.Values{
		"name":        {name},
		"description": {"A test campground"},
		"location":    {"Yosemite, CA"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/campgrounds/") {
		t.Fatalf("create redirected to %q", loc)
	}
	return loc
}

func countRows(t *testing.T, d *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
