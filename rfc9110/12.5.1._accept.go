package rfc9110

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/munnerz/goautoneg"

	"github.com/pieterb/rackful/status"
)

// MediaRange is one element of an Accept field: a type/subtype pattern, possibly
// with wildcards, and its weight.
type MediaRange struct {
	Pattern string
	Quality float64
}

var tokenRegexp = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")

// §  12.5.1.  Accept
// §
// §     The "Accept" header field can be used by user agents to specify their
// §     preferences regarding response media types.
// §
// §       Accept = #( media-range [ weight ] )
// §
// §       media-range    = ( "*/*"
// §                          / ( type "/" "*" )
// §                          / ( type "/" subtype )
// §                        ) parameters
// §
// §     A request without any Accept header field implies that the user agent
// §     will accept any media type in response.
//
// An empty or absent field yields an empty set. Ranges keep the order of the
// field.
func ParseAccept(header string) ([]MediaRange, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}
	var ranges []MediaRange
	for _, element := range strings.Split(header, ",") {
		element = strings.TrimSpace(element)
		quality, err := mediaRangeWeight(element)
		if err != nil {
			return nil, err
		}
		// goautoneg only knows a lower-case q and reads it as a float32, so the
		// weight is taken from our own parse
		for _, a := range goautoneg.ParseAccept(element) {
			ranges = append(ranges, MediaRange{
				Pattern: strings.ToLower(strings.TrimSpace(a.Type) + "/" + strings.TrimSpace(a.SubType)),
				Quality: quality,
			})
		}
	}
	return ranges, nil
}

// mediaRangeWeight validates one element of an Accept field and returns its
// weight, 1 if it has none.
func mediaRangeWeight(element string) (float64, error) {
	// §     A recipient MUST parse and ignore a reasonable number of empty list
	// §     elements
	if element == "" {
		return 0, nil
	}
	parts := strings.Split(element, ";")
	mediaRange := strings.TrimSpace(parts[0])
	if mediaRange != "*" {
		typ, subtype, ok := strings.Cut(mediaRange, "/")
		if !ok || !isRangeToken(typ) || !isRangeToken(subtype) {
			return 0, status.Parse("malformed Accept media-range %q", mediaRange)
		}
		if typ == "*" && subtype != "*" {
			return 0, status.Parse("malformed Accept media-range %q", mediaRange)
		}
	}
	quality := 1.0
	for _, param := range parts[1:] {
		name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !tokenRegexp.MatchString(name) {
			return 0, status.Parse("malformed Accept parameter %q", param)
		}
		// §     Parameter names are case-insensitive.
		if strings.EqualFold(name, "q") {
			q, err := qvalue(value)
			if err != nil {
				return 0, err
			}
			quality = q
		}
	}
	return quality, nil
}

// isRangeToken reports whether s is a type or subtype token. A "*" must stand
// alone.
func isRangeToken(s string) bool {
	if s == "*" {
		return true
	}
	return tokenRegexp.MatchString(s) && !strings.Contains(s, "*")
}

// §  12.4.2.  Quality Values
// §
// §       weight = OWS ";" OWS "q=" qvalue
// §       qvalue = ( "0" [ "." 0*3DIGIT ] )
// §              / ( "1" [ "." 0*3("0") ] )
func qvalue(s string) (float64, error) {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 || q > 1 {
		return 0, status.Parse("malformed Accept weight %q", s)
	}
	return q, nil
}
