// Package status holds the HTTP status conditions raised while a request is
// evaluated and dispatched.
//
// Conditions are returned as *Error values. The server catches them exactly
// once and turns them into a response, so the rest of the code never writes an
// error response itself.
package status

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind distinguishes status conditions that share a status code.
type Kind string

const (
	KindParse                Kind = "parse"
	KindWeakComparison       Kind = "weak-comparison"
	KindNotFound             Kind = "not-found"
	KindMethodNotAllowed     Kind = "method-not-allowed"
	KindNotAcceptable        Kind = "not-acceptable"
	KindLengthRequired       Kind = "length-required"
	KindPreconditionFailed   Kind = "precondition-failed"
	KindNotModified          Kind = "not-modified"
	KindRequestTooLarge      Kind = "request-too-large"
	KindURITooLong           Kind = "uri-too-long"
	KindUnsupportedMediaType Kind = "unsupported-media-type"
	KindUnprocessable        Kind = "unprocessable"
	KindPreconditionRequired Kind = "precondition-required"
	KindInternal             Kind = "internal"
	KindNotImplemented       Kind = "not-implemented"
	KindUnavailable          Kind = "unavailable"
	KindRedirect             Kind = "redirect"
	KindCreated              Kind = "created"
)

// Error is a status condition with its metadata.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	// Name of the request header that caused the condition.
	Header string
	// Methods the target resource implements.
	Allow []string
	// Media types that are acceptable or supported.
	MediaTypes []string
	// Target of a redirect or of a created resource.
	Location string
	// Underlying cause.
	Err error
}

// Sentinels for errors.Is.
var (
	ErrParse                = &Error{Kind: KindParse}
	ErrWeakComparison       = &Error{Kind: KindWeakComparison}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrMethodNotAllowed     = &Error{Kind: KindMethodNotAllowed}
	ErrNotAcceptable        = &Error{Kind: KindNotAcceptable}
	ErrLengthRequired       = &Error{Kind: KindLengthRequired}
	ErrPreconditionFailed   = &Error{Kind: KindPreconditionFailed}
	ErrNotModified          = &Error{Kind: KindNotModified}
	ErrUnsupportedMediaType = &Error{Kind: KindUnsupportedMediaType}
	ErrNotImplemented       = &Error{Kind: KindNotImplemented}
)

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.Code, http.StatusText(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Headers returns the response headers that belong to the condition.
func (e *Error) Headers() http.Header {
	h := make(http.Header)
	if e.Code == http.StatusMethodNotAllowed && len(e.Allow) > 0 {
		h.Set("Allow", strings.Join(e.Allow, ", "))
	}
	if e.Location != "" {
		h.Set("Location", e.Location)
	}
	return h
}

// Bodiless reports whether the response for the condition must not carry content.
func (e *Error) Bodiless() bool {
	return e.Code == http.StatusNotModified || e.Code < 200
}

// Success reports whether the condition is not a failure, e.g. 201 or a redirect.
func (e *Error) Success() bool {
	return e.Code < 400
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// From returns the *Error in err's chain.
// Any other error becomes an internal server error wrapping it.
func From(err error) *Error {
	if e, ok := As(err); ok {
		return e
	}
	return Internal(err)
}

func newError(kind Kind, code int, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Parse(format string, args ...any) *Error {
	return newError(KindParse, http.StatusBadRequest, format, args...)
}

func WeakComparison(format string, args ...any) *Error {
	return newError(KindWeakComparison, http.StatusBadRequest, format, args...)
}

func NotFound(path string) *Error {
	return newError(KindNotFound, http.StatusNotFound, "%s", path)
}

func MethodNotAllowed(method string, allow []string) *Error {
	e := newError(KindMethodNotAllowed, http.StatusMethodNotAllowed, "%s", method)
	e.Allow = allow
	return e
}

func NotAcceptable(mediaTypes []string) *Error {
	e := newError(KindNotAcceptable, http.StatusNotAcceptable, "no acceptable representation")
	e.MediaTypes = mediaTypes
	return e
}

func LengthRequired() *Error {
	return newError(KindLengthRequired, http.StatusLengthRequired, "Content-Length or chunked transfer coding required")
}

// PreconditionFailed reports the request header whose condition evaluated to false.
func PreconditionFailed(header string) *Error {
	e := newError(KindPreconditionFailed, http.StatusPreconditionFailed, "%s", header)
	e.Header = header
	return e
}

func NotModified() *Error {
	return newError(KindNotModified, http.StatusNotModified, "")
}

func RequestTooLarge(limit int64) *Error {
	return newError(KindRequestTooLarge, http.StatusRequestEntityTooLarge, "request content exceeds %d bytes", limit)
}

func URITooLong(limit int) *Error {
	return newError(KindURITooLong, http.StatusRequestURITooLong, "request target exceeds %d bytes", limit)
}

func UnsupportedMediaType(mediaType string, supported []string) *Error {
	e := newError(KindUnsupportedMediaType, http.StatusUnsupportedMediaType, "%s", mediaType)
	e.MediaTypes = supported
	return e
}

func Unprocessable(format string, args ...any) *Error {
	return newError(KindUnprocessable, http.StatusUnprocessableEntity, format, args...)
}

func PreconditionRequired() *Error {
	return newError(KindPreconditionRequired, http.StatusPreconditionRequired, "If-Match or If-Unmodified-Since required")
}

func Internal(err error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, "")
	e.Err = err
	return e
}

func NotImplemented(format string, args ...any) *Error {
	return newError(KindNotImplemented, http.StatusNotImplemented, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return newError(KindUnavailable, http.StatusServiceUnavailable, format, args...)
}

// Redirect returns a 301, 303 or 307 condition pointing at location.
func Redirect(code int, location string) *Error {
	switch code {
	case http.StatusMovedPermanently, http.StatusSeeOther, http.StatusTemporaryRedirect:
	default:
		code = http.StatusSeeOther
	}
	e := newError(KindRedirect, code, "%s", location)
	e.Location = location
	return e
}

// Created reports a newly created resource at location.
func Created(location string) *Error {
	e := newError(KindCreated, http.StatusCreated, "%s", location)
	e.Location = location
	return e
}
