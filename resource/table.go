package resource

import (
	"github.com/pieterb/rackful/rfc9110"
)

// Table lists the representations a resource type can produce, in declaration
// order. Build tables once, when the resource type is defined, and share them.
type Table struct {
	entries []rfc9110.Representation
}

// NewTable returns a table of media types, all of quality 1.0.
func NewTable(mediaTypes ...string) Table {
	var t Table
	for _, mt := range mediaTypes {
		t = t.With(mt, 1.0)
	}
	return t
}

// With returns a copy of t with mediaType at the given quality.
// Quality is clamped to [0, 1]. An existing entry for the same media type is
// replaced in place.
func (t Table) With(mediaType string, quality float64) Table {
	if quality < 0 {
		quality = 0
	} else if quality > 1 {
		quality = 1
	}
	entries := make([]rfc9110.Representation, len(t.entries), len(t.entries)+1)
	copy(entries, t.entries)
	for i := range entries {
		if entries[i].MediaType == mediaType {
			entries[i].Quality = quality
			return Table{entries: entries}
		}
	}
	return Table{entries: append(entries, rfc9110.Representation{MediaType: mediaType, Quality: quality})}
}

// Merge combines base with overrides, in order.
// An override replaces a base entry for the same media type only if its
// quality is at least as high; new media types are appended.
func Merge(base Table, overrides ...Table) Table {
	merged := base
	for _, o := range overrides {
		for _, e := range o.entries {
			if q, ok := merged.Quality(e.MediaType); ok && e.Quality < q {
				continue
			}
			merged = merged.With(e.MediaType, e.Quality)
		}
	}
	return merged
}

// Quality returns the quality of mediaType, if present.
func (t Table) Quality(mediaType string) (float64, bool) {
	for _, e := range t.entries {
		if e.MediaType == mediaType {
			return e.Quality, true
		}
	}
	return 0, false
}

// Representations returns the entries for negotiation.
func (t Table) Representations() []rfc9110.Representation {
	return append([]rfc9110.Representation(nil), t.entries...)
}

// MediaTypes returns the media types in declaration order.
func (t Table) MediaTypes() []string {
	return rfc9110.MediaTypes(t.entries)
}

func (t Table) Len() int {
	return len(t.entries)
}
