package rfc9110

import (
	"net/http"
)

// §  9.2.1.  Safe Methods
// §
// §     Request methods are considered "safe" if their defined semantics are
// §     essentially read-only; i.e., the client does not request, and does
// §     not expect, any state change on the origin server as a result of
// §     applying a safe method to a target resource.
// §
// §     Of the request methods defined by this specification, the GET, HEAD,
// §     OPTIONS, and TRACE methods are defined to be safe.
func IsSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
