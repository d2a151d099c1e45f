package buffer

import (
	"bytes"
	"net/http"
	"strconv"
)

// ResponseBuffer is an http.ResponseWriter that keeps the whole response in
// memory until it is sent with WriteTo.
// Until then the response can still be replaced or stripped of its body.
type ResponseBuffer struct {
	header        http.Header
	b             *bytes.Buffer
	status        int
	defaultStatus int
	wroteHeader   bool
}

// New returns an empty ResponseBuffer.
func New() *ResponseBuffer {
	return &ResponseBuffer{
		header:        http.Header{},
		b:             &bytes.Buffer{},
		defaultStatus: http.StatusOK,
	}
}

// Implementation of http.ResponseWriter
func (rb *ResponseBuffer) Header() http.Header {
	return rb.header
}

// Implementation of http.ResponseWriter
// Only the first status code written counts, as with a real connection.
func (rb *ResponseBuffer) WriteHeader(statusCode int) {
	if rb.wroteHeader {
		return
	}
	rb.wroteHeader = true
	rb.status = statusCode
}

// Implementation of http.ResponseWriter
func (rb *ResponseBuffer) Write(b []byte) (int, error) {
	if !rb.wroteHeader {
		rb.WriteHeader(rb.defaultStatus)
	}
	return rb.b.Write(b)
}

// SetDefaultStatus sets the status code used when the handler writes none.
func (rb *ResponseBuffer) SetDefaultStatus(statusCode int) {
	rb.defaultStatus = statusCode
}

// StatusCode returns the status code of the response.
func (rb *ResponseBuffer) StatusCode() int {
	if rb.wroteHeader {
		return rb.status
	}
	return rb.defaultStatus
}

// Body returns the buffered content.
func (rb *ResponseBuffer) Body() []byte {
	return rb.b.Bytes()
}

// Reset throws away everything written so far, headers included.
func (rb *ResponseBuffer) Reset() {
	rb.header = http.Header{}
	rb.b.Reset()
	rb.status = 0
	rb.defaultStatus = http.StatusOK
	rb.wroteHeader = false
}

// DiscardBody drops the content but keeps status and headers.
func (rb *ResponseBuffer) DiscardBody() {
	rb.b.Reset()
}

// WriteTo sends the buffered response to w.
// Content-Length is set from the buffer unless a handler set it already.
func (rb *ResponseBuffer) WriteTo(w http.ResponseWriter) error {
	copyHeader(w.Header(), rb.header)
	if w.Header().Get("Content-Length") == "" && bodyAllowed(rb.StatusCode()) {
		w.Header().Set("Content-Length", strconv.Itoa(rb.b.Len()))
	}
	w.WriteHeader(rb.StatusCode())
	if rb.b.Len() == 0 {
		return nil
	}
	_, err := w.Write(rb.b.Bytes())
	return err
}

func bodyAllowed(status int) bool {
	return status >= 200 && status != http.StatusNoContent && status != http.StatusNotModified
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}
