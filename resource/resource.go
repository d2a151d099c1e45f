// Package resource defines what the server needs to know about the resources
// it serves.
//
// A Resource only has to report its path and whether it currently exists.
// Everything else is an optional capability the server detects with a type
// assertion: a resource that does not implement Destroyable cannot be deleted,
// one that does not implement Validated has no entity tag, and so on.
package resource

import (
	"io"
	"net/http"
	"time"

	"github.com/pieterb/rackful/rfc9110"
)

// Resource is a target of HTTP requests.
type Resource interface {
	// Path is the canonical path of the resource.
	// If it differs from the request path, the response gets a Content-Location.
	Path() string
	// Exists reports whether the resource has a current representation.
	// An empty resource can still be the target of PUT.
	Exists() bool
}

// HandlerFunc handles one method on a resource.
// It writes to w, and returns a status error or any other error on failure.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Validated resources have an entity tag.
type Validated interface {
	ETag() rfc9110.EntityTag
}

// Timestamped resources have a modification date.
// The boolean reports whether the date is a strong validator.
type Timestamped interface {
	LastModified() (time.Time, bool)
}

// Representable resources are rendered by the server after content negotiation.
type Representable interface {
	Representations() Table
	Render(w io.Writer, mediaType string) error
}

// Readable resources handle GET themselves.
type Readable interface {
	Get(w http.ResponseWriter, r *http.Request) error
}

// Writable resources accept PUT.
type Writable interface {
	Put(w http.ResponseWriter, r *http.Request) error
}

// Destroyable resources accept DELETE.
// The returned headers are added to the response.
type Destroyable interface {
	Destroy(r *http.Request) (http.Header, error)
}

// MethodHandlers resources handle any other methods, keyed by method name.
type MethodHandlers interface {
	Handlers() map[string]HandlerFunc
}

// MediaTypeAcceptor resources restrict the media types of request content.
// A nil result for a method means anything goes.
type MediaTypeAcceptor interface {
	AcceptedMediaTypes(method string) []string
}

// DefaultHeaders returns the validator headers of r.
func DefaultHeaders(r Resource) http.Header {
	h := make(http.Header)
	if !r.Exists() {
		return h
	}
	if v, ok := r.(Validated); ok {
		if etag := v.ETag(); etag != "" {
			h.Set("ETag", etag.String())
		}
	}
	if lm := lastModified(r); lm != nil {
		h.Set("Last-Modified", lm.String())
	}
	return h
}

// Validators returns the input for precondition evaluation.
func Validators(r Resource) rfc9110.State {
	var etag rfc9110.EntityTag
	if v, ok := r.(Validated); ok {
		etag = v.ETag()
	}
	return rfc9110.ValidatorState(r.Exists(), etag, lastModified(r))
}

func lastModified(r Resource) *rfc9110.LastModified {
	t, ok := r.(Timestamped)
	if !ok {
		return nil
	}
	lm, strong := t.LastModified()
	if lm.IsZero() {
		return nil
	}
	return rfc9110.NewLastModified(lm, strong)
}
