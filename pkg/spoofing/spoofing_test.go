package spoofing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type seen struct {
	method string
	query  string
	header http.Header
	body   string
}

func recorder(s *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.query = r.URL.RawQuery
		s.header = r.Header
		b, _ := io.ReadAll(r.Body)
		s.body = string(b)
	})
}

func TestMethodOverrideParam(t *testing.T) {
	var s seen
	h := MethodOverride(recorder(&s))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/doc?a=1&_method=delete&b=2", nil))
	assert.Equal(t, "DELETE", s.method)
	assert.Equal(t, "a=1&b=2", s.query)

	// only the first valid parameter counts
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/doc?_method=x1&_METHOD=head&_method=put", nil))
	assert.Equal(t, "HEAD", s.method)
	assert.Equal(t, "_method=x1&_method=put", s.query)

	// other methods are left alone
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/doc?_method=DELETE", nil))
	assert.Equal(t, "PUT", s.method)
	assert.Equal(t, "_method=DELETE", s.query)
}

func TestMethodOverrideHeader(t *testing.T) {
	var s seen
	h := MethodOverride(recorder(&s))

	r := httptest.NewRequest("POST", "/doc", strings.NewReader("{}"))
	r.Header.Set(MethodOverrideHeader, "patch")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "PATCH", s.method)
	assert.Empty(t, s.header.Get(MethodOverrideHeader))
	assert.Equal(t, "{}", s.body)

	r = httptest.NewRequest("GET", "/doc", nil)
	r.Header.Set(MethodOverrideHeader, "DELETE")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "GET", s.method)
}

func TestMethodOverrideFormToQuery(t *testing.T) {
	var s seen
	h := MethodOverride(recorder(&s))

	r := httptest.NewRequest("POST", "/search?_method=GET&x=1", strings.NewReader("q=go&page=2"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "GET", s.method)
	assert.Equal(t, "x=1&q=go&page=2", s.query)
	assert.Empty(t, s.body)
	assert.Empty(t, s.header.Get("Content-Type"))
}

func TestHeaderSpoofing(t *testing.T) {
	var s seen
	h := HeaderSpoofing(recorder(&s))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/doc?_http_If_None_Match=%22abc%22&keep=1&_HTTP_ACCEPT=text/plain", nil))
	assert.Equal(t, `"abc"`, s.header.Get("If-None-Match"))
	assert.Equal(t, "text/plain", s.header.Get("Accept"))
	assert.Equal(t, "keep=1", s.query)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/doc?_http_=x&_http_1=y", nil))
	assert.Equal(t, "_http_=x&_http_1=y", s.query)
}
