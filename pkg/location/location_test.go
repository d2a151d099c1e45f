package location

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/docs/", nil)

	tests := map[string]string{
		"abc":                     "http://example.com/docs/abc",
		"./abc":                   "http://example.com/docs/abc",
		"/other":                  "http://example.com/other",
		"../up?x=1":               "http://example.com/up?x=1",
		"https://elsewhere.org/y": "https://elsewhere.org/y",
		"//cdn.example.com/y":     "http://cdn.example.com/y",
	}
	for in, want := range tests {
		if got := Resolve(r, in); got != want {
			t.Fatalf("Resolve(%q) is %q, want %q", in, got, want)
		}
	}
}

func TestResolveScheme(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/docs/", nil)
	r.TLS = &tls.ConnectionState{}
	if got := Resolve(r, "a"); got != "https://example.com/docs/a" {
		t.Fatalf("TLS request resolved to %s", got)
	}

	r = httptest.NewRequest("POST", "http://example.com/docs/", nil)
	r.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	if got := Resolve(r, "a"); got != "https://example.com/docs/a" {
		t.Fatalf("Proxied request resolved to %s", got)
	}
}

func TestAbsolutize(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/docs/", nil)
	h := http.Header{}
	h.Set("Location", "new")
	Absolutize(r, h)
	if h.Get("Location") != "http://example.com/docs/new" {
		t.Fatalf("Location is %s", h.Get("Location"))
	}

	h = http.Header{}
	h.Set("Content-Location", "/docs/index")
	Absolutize(r, h)
	if h.Get("Content-Location") != "http://example.com/docs/index" {
		t.Fatalf("Content-Location is %s", h.Get("Content-Location"))
	}

	h = http.Header{}
	Absolutize(r, h)
	if _, ok := h["Location"]; ok {
		t.Fatal("Location added")
	}
}

func TestPath(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/docs/", nil)
	if p, ok := Path(r, "http://example.com/docs/x"); !ok || p != "/docs/x" {
		t.Fatalf("Path is %s %v", p, ok)
	}
	if p, ok := Path(r, "x"); !ok || p != "/docs/x" {
		t.Fatalf("Path is %s %v", p, ok)
	}
	if _, ok := Path(r, "http://other.org/docs/x"); ok {
		t.Fatal("Foreign host accepted")
	}
}
