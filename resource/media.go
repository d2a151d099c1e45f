package resource

import (
	"github.com/pieterb/rackful/rfc9110"
)

// AcceptsMediaType reports whether r takes request content of mediaType for
// method. It also returns the media types r declared, for the 415 response.
func AcceptsMediaType(r Resource, method, mediaType string) (bool, []string) {
	a, ok := r.(MediaTypeAcceptor)
	if !ok {
		return true, nil
	}
	accepted := a.AcceptedMediaTypes(method)
	if accepted == nil {
		return true, nil
	}
	for _, pattern := range accepted {
		if rfc9110.MatchMediaRange(pattern, mediaType) {
			return true, accepted
		}
	}
	return false, accepted
}
