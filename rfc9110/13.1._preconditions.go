package rfc9110

import (
	"net/http"
	"strings"
	"time"

	"github.com/pieterb/rackful/status"
)

// §  13.1.  Preconditions
// §
// §     Preconditions are usually defined with respect to a state of the
// §     target resource as a whole (its current value set) or the state as
// §     observed in a previously obtained representation (one value in that
// §     set).
//
// A nil field means the header is absent.
type Conditions struct {
	IfMatch           []EntityTag
	IfNoneMatch       []EntityTag
	IfModifiedSince   *time.Time
	IfUnmodifiedSince *time.Time
}

const (
	HeaderIfMatch           = "If-Match"
	HeaderIfNoneMatch       = "If-None-Match"
	HeaderIfModifiedSince   = "If-Modified-Since"
	HeaderIfUnmodifiedSince = "If-Unmodified-Since"
	HeaderIfRange           = "If-Range"
)

// ParseConditions extracts the conditional request headers.
// If-Range is rejected before anything else is looked at.
func ParseConditions(h http.Header) (Conditions, error) {
	var c Conditions
	// §  13.1.5.  If-Range
	// §
	// §     A server MUST ignore an If-Range header field received in a request
	// §     that does not contain a Range header field.
	//
	// Range requests are not served, so If-Range is refused outright.
	if _, ok := h[HeaderIfRange]; ok {
		return c, status.NotImplemented("%s: request header is not supported", HeaderIfRange)
	}
	var err error
	// §  13.1.1.  If-Match
	// §
	// §       If-Match = "*" / #entity-tag
	if c.IfMatch, err = entityTagListHeader(h, HeaderIfMatch); err != nil {
		return c, err
	}
	// §  13.1.2.  If-None-Match
	// §
	// §       If-None-Match = "*" / #entity-tag
	if c.IfNoneMatch, err = entityTagListHeader(h, HeaderIfNoneMatch); err != nil {
		return c, err
	}
	// §  13.1.3.  If-Modified-Since
	// §
	// §       If-Modified-Since = HTTP-date
	if c.IfModifiedSince, err = dateHeader(h, HeaderIfModifiedSince); err != nil {
		return c, err
	}
	// §  13.1.4.  If-Unmodified-Since
	// §
	// §       If-Unmodified-Since = HTTP-date
	if c.IfUnmodifiedSince, err = dateHeader(h, HeaderIfUnmodifiedSince); err != nil {
		return c, err
	}
	return c, nil
}

// Empty reports whether no precondition is present.
func (c Conditions) Empty() bool {
	return c.IfMatch == nil && c.IfNoneMatch == nil &&
		c.IfModifiedSince == nil && c.IfUnmodifiedSince == nil
}

func entityTagListHeader(h http.Header, name string) ([]EntityTag, error) {
	values, ok := h[name]
	if !ok {
		return nil, nil
	}
	return parseEntityTagList(name, strings.Join(values, ", "))
}

func dateHeader(h http.Header, name string) (*time.Time, error) {
	values, ok := h[name]
	if !ok {
		return nil, nil
	}
	if len(values) != 1 {
		return nil, status.Parse("%s: more than one value", name)
	}
	date, err := HttpDate(values[0])
	if err != nil {
		return nil, status.Parse("%s: %s", name, err)
	}
	return &date, nil
}
