package location

import (
	"net/http"
	"net/url"
	"strings"
)

// BaseURL returns the absolute URL the client used for r.
// The scheme comes from the TLS state or X-Forwarded-Proto, the host from Host.
func BaseURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
}

// Resolve returns loc as an absolute URL relative to the request.
// Values that cannot be parsed are returned unchanged.
func Resolve(r *http.Request, loc string) string {
	ref, err := url.Parse(loc)
	if err != nil || ref.IsAbs() {
		return loc
	}
	return BaseURL(r).ResolveReference(ref).String()
}

// Absolutize rewrites a relative Location header of h in place, and a
// Content-Location holding an absolute path.
func Absolutize(r *http.Request, h http.Header) {
	if loc := h.Get("Location"); loc != "" {
		h.Set("Location", Resolve(r, loc))
	}
	if loc := h.Get("Content-Location"); strings.HasPrefix(loc, "/") && !strings.HasPrefix(loc, "//") {
		h.Set("Content-Location", Resolve(r, loc))
	}
}

// Path returns the path component of loc resolved against the request.
// It reports false when loc points at another host.
func Path(r *http.Request, loc string) (string, bool) {
	ref, err := url.Parse(loc)
	if err != nil {
		return "", false
	}
	base := BaseURL(r)
	abs := base.ResolveReference(ref)
	if !strings.EqualFold(abs.Host, base.Host) {
		return "", false
	}
	return abs.Path, true
}
