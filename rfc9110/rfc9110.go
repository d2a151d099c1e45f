// Package rfc9110 implements the parts of HTTP Semantics (RFC 9110) an origin
// server needs to evaluate conditional requests and negotiate content.
//
// Files are named after the RFC section they implement and quote it with
// "// §" comments.
package rfc9110

// ValidatorState returns the evaluator input for the given resource properties.
// A zero etag means the resource has no entity tag; a nil lastModified means
// it has no modification date. Validators of an empty resource are ignored.
func ValidatorState(exists bool, etag EntityTag, lastModified *LastModified) State {
	if !exists {
		return State{}
	}
	return State{Exists: true, ETag: etag, LastModified: lastModified}
}
