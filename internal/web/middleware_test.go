package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMethodOverrideFromFormField(t *testing.T) {
	var got string
	h := methodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))

	r := httptest.NewRequest("POST", "/campgrounds/1", strings.NewReader("_method=PUT&name=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != http.MethodPut {
		t.Errorf("method = %q, want PUT", got)
	}
}

func TestMethodOverrideFromQuery(t *testing.T) {
	var got string
	h := methodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))

	r := httptest.NewRequest("POST", "/campgrounds/1?_method=DELETE", nil)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", got)
	}
}

func TestMethodOverrideIgnoresUnsafeMethods(t *testing.T) {
	var got string
	h := methodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))

	// Only PUT/PATCH/DELETE are honored.
	r := httptest.NewRequest("POST", "/campgrounds/1?_method=CONNECT", nil)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != http.MethodPost {
		t.Errorf("method = %q, want POST", got)
	}
}

func TestMethodOverrideLeavesGetAlone(t *testing.T) {
	var got string
	h := methodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))

	r := httptest.NewRequest("GET", "/campgrounds/1?_method=DELETE", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != http.MethodGet {
		t.Errorf("method = %q, want GET", got)
	}
}
