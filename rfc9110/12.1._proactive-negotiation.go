package rfc9110

import (
	"path"
	"strings"

	"github.com/pieterb/rackful/status"
)

// Representation is a media type a resource can produce, with the server's
// relative preference for it. Parameters in MediaType are kept in the result
// of negotiation but ignored for matching.
type Representation struct {
	MediaType string
	Quality   float64
}

// §  12.1.  Proactive Negotiation
// §
// §     When content negotiation preferences are sent by the user agent in a
// §     request to encourage an algorithm located at the server to select the
// §     preferred representation, it is called "proactive negotiation" (a.k.a.
// §     "server-driven negotiation").  Selection is based on the available
// §     representations for a response (the dimensions over which it might
// §     vary, such as language, content coding, etc.) compared to various
// §     information supplied in the request, including both the explicit
// §     negotiation header fields below and implicit characteristics.
//
// Negotiate returns the representation with the highest product of client and
// server quality. Ties go to the representation declared first.
// Without any match, a 406 listing all media types is returned when
// requireMatch is set; otherwise the default representation is chosen.
func Negotiate(accept []MediaRange, reps []Representation, requireMatch bool) (string, error) {
	if len(accept) > 0 {
		best, bestScore := "", 0.0
		for _, rep := range reps {
			base := baseMediaType(rep.MediaType)
			for _, r := range accept {
				if !matchMediaRange(r.Pattern, base) {
					continue
				}
				if score := r.Quality * rep.Quality; score > bestScore {
					best, bestScore = rep.MediaType, score
				}
			}
		}
		if bestScore > 0 {
			return best, nil
		}
		if requireMatch {
			return "", status.NotAcceptable(MediaTypes(reps))
		}
	}
	if len(reps) == 0 {
		if requireMatch {
			return "", status.NotAcceptable(nil)
		}
		return "", nil
	}
	return DefaultRepresentation(reps).MediaType, nil
}

// DefaultRepresentation returns the representation with the highest declared
// quality, the first one declared on ties. reps must not be empty.
func DefaultRepresentation(reps []Representation) Representation {
	best := reps[0]
	for _, rep := range reps[1:] {
		if rep.Quality > best.Quality {
			best = rep
		}
	}
	return best
}

// MediaTypes returns the media types of reps in declaration order.
func MediaTypes(reps []Representation) []string {
	types := make([]string, 0, len(reps))
	for _, rep := range reps {
		types = append(types, rep.MediaType)
	}
	return types
}

func baseMediaType(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// §     The asterisk "*" character is used to group media types into ranges,
// §     with "*/*" indicating all media types and "type/*" indicating all
// §     subtypes of that type.
func matchMediaRange(pattern, mediaType string) bool {
	matched, err := path.Match(strings.ToLower(pattern), mediaType)
	return err == nil && matched
}

// MatchMediaRange reports whether mediaType, parameters ignored, falls in the
// media range pattern.
func MatchMediaRange(pattern, mediaType string) bool {
	return matchMediaRange(baseMediaType(pattern), baseMediaType(mediaType))
}
