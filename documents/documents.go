// Package documents is a registry of resources kept in a store.Provider.
//
// Paths ending in a slash are collections: they list the documents below them
// and create new ones on POST. Any other path is a document that can be read,
// replaced with PUT and removed with DELETE.
package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/pieterb/rackful/resource"
	"github.com/pieterb/rackful/store"
)

const defaultContentType = "application/octet-stream"

type Config struct {
	// Where documents are kept. Required.
	Store store.Provider
	// Media types accepted by PUT and POST. Empty means any.
	AcceptTypes []string
	// Clock for modification dates. Defaults to time.Now.
	Now func() time.Time
}

// Registry resolves paths to documents and collections.
type Registry struct {
	store       store.Provider
	acceptTypes []string
	now         func() time.Time
}

func New(config Config) *Registry {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		store:       config.Store,
		acceptTypes: config.AcceptTypes,
		now:         now,
	}
}

// Lookup returns the resource at path. Documents that do not exist yet are
// returned as empty resources, so they can be created with PUT.
func (reg *Registry) Lookup(ctx context.Context, path string) (resource.Resource, error) {
	if strings.HasSuffix(path, "/") {
		docs, err := reg.store.All(path)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", path)
		}
		return &Collection{path: path, docs: docs, reg: reg}, nil
	}
	d, ok, err := reg.store.Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return &Document{path: path, doc: d, exists: ok, reg: reg}, nil
}

func (reg *Registry) accepted(method string) []string {
	if method != http.MethodPut && method != http.MethodPost {
		return nil
	}
	if len(reg.acceptTypes) == 0 {
		return nil
	}
	return reg.acceptTypes
}

// save reads the request content into a document at path.
func (reg *Registry) save(r *http.Request, path string) (store.Document, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return store.Document{}, err
	}
	if err := validate(contentType, body); err != nil {
		return store.Document{}, err
	}
	d := store.Document{
		Path:        path,
		ContentType: contentType,
		Body:        body,
		Modified:    reg.now().UTC(),
	}
	if err := reg.store.Put(d); err != nil {
		return store.Document{}, errors.Wrapf(err, "storing %s", path)
	}
	hlog.FromRequest(r).Debug().Str("path", path).Int("size", len(body)).Msg("Stored document")
	return d, nil
}

func digest(b ...[]byte) string {
	h := sha256.New()
	for _, p := range b {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
