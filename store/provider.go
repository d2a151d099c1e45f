package store

import (
	"sort"
	"strings"
	"time"
)

// Provider stores documents by path.
// Paths are plain strings; providers do not interpret them beyond prefix
// matching, so "/a/" and "/a/b" are unrelated keys that share a prefix.
//
// Implementations must be thread-safe!
type Provider interface {
	// Get returns the document stored at path.
	// The boolean is false if there is none; that is not an error.
	Get(path string) (Document, bool, error)
	// Put stores doc under doc.Path, replacing any previous version.
	Put(doc Document) error
	// Delete removes the document at path and reports whether it existed.
	Delete(path string) (bool, error)
	// All returns the documents whose path has the given prefix, ordered by path.
	All(prefix string) ([]Document, error)
	// Close releases the underlying storage.
	Close() error
}

// Document is a stored representation.
type Document struct {
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	Modified    time.Time `json:"modified"`
}

func sortByPath(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
}

func hasPrefix(path, prefix string) bool {
	return strings.HasPrefix(path, prefix)
}
