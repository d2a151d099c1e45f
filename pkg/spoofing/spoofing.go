// Package spoofing lets clients that can only send GET and POST, such as
// plain HTML forms, reach every method and header of the server.
package spoofing

import (
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/hlog"
)

const (
	MethodParam          = "_method"
	MethodOverrideHeader = "X-HTTP-Method-Override"
	headerParamPrefix    = "_http_"
	formMediaType        = "application/x-www-form-urlencoded"
)

var (
	methodRegexp      = regexp.MustCompile(`^[A-Z]+$`)
	headerParamRegexp = regexp.MustCompile(`(?i)^_http_([a-z]+(?:[-_][a-z]+)*)$`)
)

// MethodOverride rewrites the method of GET and POST requests that carry a
// _method query parameter, or of POST requests with an X-HTTP-Method-Override
// header. The parameter is removed from the query.
//
// A POST spoofed into a GET with form content moves the form into the query
// and drops the content.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		query, method := extractMethod(r.URL.RawQuery)
		if method == "" && r.Method == http.MethodPost {
			if m := strings.ToUpper(strings.TrimSpace(r.Header.Get(MethodOverrideHeader))); methodRegexp.MatchString(m) {
				method = m
			}
		}
		if method == "" {
			next.ServeHTTP(w, r)
			return
		}
		hlog.FromRequest(r).Trace().Str("from", r.Method).Str("to", method).Msg("Spoofing request method")

		r2 := r.Clone(r.Context())
		r2.Header.Del(MethodOverrideHeader)
		if method == http.MethodGet && r.Method == http.MethodPost && isForm(r) {
			if form, err := io.ReadAll(r.Body); err == nil && len(form) > 0 {
				if query != "" {
					query += "&"
				}
				query += string(form)
			}
			r2.Body = http.NoBody
			r2.ContentLength = 0
			r2.Header.Del("Content-Type")
			r2.Header.Del("Content-Length")
		}
		r2.Method = method
		r2.URL.RawQuery = query
		r2.RequestURI = r2.URL.RequestURI()
		next.ServeHTTP(w, r2)
	})
}

// extractMethod removes the first valid _method parameter from a raw query.
func extractMethod(rawQuery string) (string, string) {
	if rawQuery == "" {
		return rawQuery, ""
	}
	method := ""
	kept := make([]string, 0)
	for _, param := range strings.Split(rawQuery, "&") {
		name, value, _ := strings.Cut(param, "=")
		if method == "" && strings.EqualFold(name, MethodParam) {
			if m := strings.ToUpper(value); methodRegexp.MatchString(m) {
				method = m
				continue
			}
		}
		kept = append(kept, param)
	}
	return strings.Join(kept, "&"), method
}

func isForm(r *http.Request) bool {
	ct, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	return strings.EqualFold(strings.TrimSpace(ct), formMediaType)
}

// HeaderSpoofing turns _http_Some_Header=value query parameters into request
// headers, e.g. ?_http_If_Match=* sets If-Match: *. The parameters are removed
// from the query.
func HeaderSpoofing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(strings.ToLower(r.URL.RawQuery), headerParamPrefix) {
			next.ServeHTTP(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		kept := make([]string, 0)
		for _, param := range strings.Split(r.URL.RawQuery, "&") {
			name, value, _ := strings.Cut(param, "=")
			m := headerParamRegexp.FindStringSubmatch(name)
			if m == nil {
				kept = append(kept, param)
				continue
			}
			header := textproto.CanonicalMIMEHeaderKey(strings.ReplaceAll(m[1], "_", "-"))
			if unescaped, err := url.QueryUnescape(value); err == nil {
				value = unescaped
			}
			hlog.FromRequest(r).Trace().Str("header", header).Msg("Spoofing request header")
			r2.Header.Set(header, value)
		}
		r2.URL.RawQuery = strings.Join(kept, "&")
		r2.RequestURI = r2.URL.RequestURI()
		next.ServeHTTP(w, r2)
	})
}
