package rackful

import (
	"mime"
	"net/http"
	"strings"

	buffer "github.com/pieterb/rackful/pkg/response-buffer"
	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/rfc9110"
	"github.com/pieterb/rackful/status"
)

const defaultMediaType = "application/octet-stream"

// dispatch runs the handler for the request method.
func (s *Server) dispatch(rb *buffer.ResponseBuffer, x *exchange) error {
	x.enter(methodExecuting)
	switch x.r.Method {
	case http.MethodOptions:
		return s.options(rb, x)
	case http.MethodGet, http.MethodHead:
		// HEAD content is dropped in finalize
		return s.get(rb, x)
	case http.MethodDelete:
		return s.delete(rb, x)
	case http.MethodPut:
		return s.put(rb, x)
	default:
		return s.other(rb, x)
	}
}

// §  9.3.7.  OPTIONS
// §
// §     A server generating a successful response to OPTIONS SHOULD send any
// §     header that might indicate optional features implemented by the
// §     server and applicable to the target resource (e.g., Allow)
func (s *Server) options(rb *buffer.ResponseBuffer, x *exchange) error {
	rb.Header().Set("Allow", strings.Join(resource.ImplementedMethods(x.resource), ", "))
	rb.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) get(rb *buffer.ResponseBuffer, x *exchange) error {
	res := x.resource
	if !res.Exists() {
		return status.NotFound(x.r.URL.Path)
	}
	if readable, ok := res.(resource.Readable); ok {
		if err := readable.Get(rb, x.r); err != nil {
			return err
		}
	} else if representable, ok := res.(resource.Representable); ok {
		if err := s.render(rb, x, representable); err != nil {
			return err
		}
	} else {
		return s.methodNotAllowed(x)
	}
	mergeMissing(rb.Header(), resource.DefaultHeaders(res))
	return nil
}

func (s *Server) render(rb *buffer.ResponseBuffer, x *exchange, rep resource.Representable) error {
	accept, err := x.accept()
	if err != nil {
		return err
	}
	mediaType, err := rfc9110.Negotiate(accept, rep.Representations().Representations(), true)
	if err != nil {
		return err
	}
	x.log.Trace().Str("mediaType", mediaType).Msg("Negotiated representation")
	rb.Header().Set("Content-Type", mediaType)
	rb.Header().Add("Vary", "Accept")
	return rep.Render(rb, mediaType)
}

func (s *Server) delete(rb *buffer.ResponseBuffer, x *exchange) error {
	res := x.resource
	if !res.Exists() {
		return status.NotFound(x.r.URL.Path)
	}
	destroyable, ok := res.(resource.Destroyable)
	if !ok {
		return s.methodNotAllowed(x)
	}
	header, err := destroyable.Destroy(x.r)
	if err != nil {
		return err
	}
	for name, values := range header {
		rb.Header()[name] = values
	}
	rb.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) put(rb *buffer.ResponseBuffer, x *exchange) error {
	res := x.resource
	writable, ok := res.(resource.Writable)
	if !ok {
		return s.methodNotAllowed(x)
	}
	if !hasLength(x.r) {
		return status.LengthRequired()
	}
	if err := checkMediaType(res, x.r); err != nil {
		return err
	}
	// validators of the new state are added by enrich
	if res.Exists() {
		rb.SetDefaultStatus(http.StatusNoContent)
	} else {
		rb.SetDefaultStatus(http.StatusCreated)
	}
	return writable.Put(rb, x.r)
}

// other runs the handler a resource registered for any other method.
func (s *Server) other(rb *buffer.ResponseBuffer, x *exchange) error {
	handler, ok := resource.Handler(x.resource, x.r.Method)
	if !ok {
		return s.methodNotAllowed(x)
	}
	if hasContent(x.r) {
		if err := checkMediaType(x.resource, x.r); err != nil {
			return err
		}
	}
	return handler(rb, x.r)
}

func (s *Server) methodNotAllowed(x *exchange) error {
	return status.MethodNotAllowed(x.r.Method, resource.ImplementedMethods(x.resource))
}

// §  8.6.  Content-Length
// §
// §     A user agent SHOULD send Content-Length in a request when the method
// §     defines a meaning for enclosed content and it is not sending
// §     Transfer-Encoding.
func hasLength(r *http.Request) bool {
	if r.ContentLength > 0 || r.Header.Get("Content-Length") != "" {
		return true
	}
	return chunked(r)
}

func hasContent(r *http.Request) bool {
	return r.ContentLength != 0 || chunked(r)
}

func chunked(r *http.Request) bool {
	for _, te := range r.TransferEncoding {
		if strings.EqualFold(te, "chunked") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Transfer-Encoding")), "chunked")
}

// §  8.3.  Content-Type
// §
// §     A sender that generates a message containing content SHOULD generate
// §     a Content-Type header field in that message unless the intended media
// §     type of the enclosed representation is unknown to the sender.  If a
// §     Content-Type header field is not present, the recipient MAY either
// §     assume a media type of "application/octet-stream" ([RFC2046],
// §     Section 4.5.1) or examine the data to determine its type.
func checkMediaType(res resource.Resource, r *http.Request) error {
	mediaType := defaultMediaType
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return status.Parse("malformed Content-Type %q", ct)
		}
		mediaType = mt
	}
	if ok, accepted := resource.AcceptsMediaType(res, r.Method, mediaType); !ok {
		return status.UnsupportedMediaType(mediaType, accepted)
	}
	return nil
}

func mergeMissing(dst, src http.Header) {
	for name, values := range src {
		if dst.Get(name) == "" {
			dst[name] = values
		}
	}
}
