package rfc9110

import (
	"time"
)

// §  8.8.2.  Last-Modified
// §
// §     The "Last-Modified" header field in a response provides a timestamp
// §     indicating the date and time at which the origin server believes the
// §     selected representation was last modified, as determined at the
// §     conclusion of handling the request.
// §
// §       Last-Modified = HTTP-date
//
// Strong is set by the resource owner; a modification date is never
// assumed to be a strong validator.
type LastModified struct {
	Time   time.Time
	Strong bool
}

// NewLastModified returns the validator for t, truncated to HTTP-date precision.
func NewLastModified(t time.Time, strong bool) *LastModified {
	return &LastModified{Time: t.UTC().Truncate(time.Second), Strong: strong}
}

// §  8.8.2.2.  Comparison
// §
// §     A Last-Modified time, when used as a validator in a request, is
// §     implicitly weak unless it is possible to deduce that it is strong
// §
// Timestamps compare at one-second resolution, the precision of an HTTP-date.
func (lm LastModified) second() time.Time {
	return lm.Time.UTC().Truncate(time.Second)
}

// After reports whether the modification date is strictly after t.
func (lm LastModified) After(t time.Time) bool {
	return t.UTC().Truncate(time.Second).Before(lm.second())
}

// Equal reports whether t denotes the same second as the modification date.
func (lm LastModified) Equal(t time.Time) bool {
	return t.UTC().Truncate(time.Second).Equal(lm.second())
}

// String formats the date as IMF-fixdate.
func (lm LastModified) String() string {
	return ToHttpDate(lm.Time)
}
