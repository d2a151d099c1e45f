package rfc9110

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/pieterb/rackful/status"
)

// §  8.8.3.  ETag
// §
// §     The "ETag" field in a response provides the current entity tag for
// §     the selected representation, as determined at the conclusion of
// §     handling the request.
// §
// §       ETag       = entity-tag
// §
// §       entity-tag = [ weak ] opaque-tag
// §       weak       = %s"W/"
// §       opaque-tag = DQUOTE *etagc DQUOTE
// §       etagc      = %x21 / %x23-7E / obs-text
// §                  ; VCHAR except double quotes, plus obs-text
type EntityTag string

// Wildcard is the "*" member of If-Match and If-None-Match.
const Wildcard EntityTag = "*"

const weakPrefix = "W/"

var (
	entityTagRegexp     = regexp.MustCompile(`^(W/)?"([^"\\]|\\.)*"$`)
	entityTagListRegexp = regexp.MustCompile(`^(\s*(W/)?"([^"\\]|\\.)*"\s*,)+$`)
	entityTagItemRegexp = regexp.MustCompile(`\s*((?:W/)?"(?:[^"\\]|\\.)*")\s*,`)
)

// ParseEntityTag parses a single entity-tag.
func ParseEntityTag(s string) (EntityTag, error) {
	s = strings.TrimSpace(s)
	if !entityTagRegexp.MatchString(s) {
		return "", status.Parse("malformed entity-tag %q", s)
	}
	return EntityTag(s), nil
}

// StrongETag returns a strong entity tag with the given opaque content.
func StrongETag(opaque string) EntityTag {
	return EntityTag(`"` + opaque + `"`)
}

// WeakETag returns a weak entity tag with the given opaque content.
func WeakETag(opaque string) EntityTag {
	return EntityTag(weakPrefix + `"` + opaque + `"`)
}

// Weak reports whether the tag carries the weakness indicator.
func (t EntityTag) Weak() bool {
	return strings.HasPrefix(string(t), weakPrefix)
}

// Opaque returns the quoted content of the tag, without the quotes.
func (t EntityTag) Opaque() string {
	s := strings.TrimPrefix(string(t), weakPrefix)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func (t EntityTag) String() string {
	return string(t)
}

// §  8.8.3.2.  Comparison
// §
// §     There are two entity-tag comparison functions, depending on whether
// §     or not the comparison context allows the use of weak validators:
// §
// §     "Strong comparison":  two entity tags are equivalent if both are not
// §        weak and their opaque-tags match character-by-character.
// §
// §     "Weak comparison":  two entity tags are equivalent if their opaque-
// §        tags match character-by-character, regardless of either or both
// §        being tagged as "weak".
func StronglyEquivalent(a, b EntityTag) bool {
	return !a.Weak() && !b.Weak() && a.Opaque() == b.Opaque()
}

func WeaklyEquivalent(a, b EntityTag) bool {
	return a.Opaque() == b.Opaque()
}

// MatchesAny reports whether tag matches one of candidates.
// The wildcard matches anything, including a resource without entity tag.
// A candidate that only matches under weak comparison counts when allowWeak
// is set and is a weak-comparison error otherwise.
func MatchesAny(tag EntityTag, candidates []EntityTag, allowWeak bool) (bool, error) {
	weakOnly := EntityTag("")
	for _, c := range candidates {
		if c == Wildcard {
			return true, nil
		}
		if tag == "" {
			continue
		}
		if StronglyEquivalent(tag, c) {
			return true, nil
		}
		if weakOnly == "" && WeaklyEquivalent(tag, c) {
			weakOnly = c
		}
	}
	if weakOnly == "" {
		return false, nil
	}
	if !allowWeak {
		return false, status.WeakComparison("entity-tag %s matches %s only under weak comparison", weakOnly, tag)
	}
	return true, nil
}

// AllowWeak reports whether weak comparison is permitted for the request method.
//
// §     ... weak entity tags can be used for cache validation even if there
// §     have been changes to the representation data.
//
// Weak validators are accepted for safe retrieval only.
func AllowWeak(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// parseEntityTagList parses the field value of If-Match or If-None-Match:
// either "*" or a comma-separated list of entity tags.
func parseEntityTagList(header, value string) ([]EntityTag, error) {
	value = strings.TrimSpace(value)
	if value == "*" {
		return []EntityTag{Wildcard}, nil
	}
	list := value + ","
	if !entityTagListRegexp.MatchString(list) {
		return nil, status.Parse("malformed %s: %s", header, value)
	}
	matches := entityTagItemRegexp.FindAllStringSubmatch(list, -1)
	tags := make([]EntityTag, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, EntityTag(m[1]))
	}
	return tags, nil
}
