package store

import (
	"encoding/json"

	"github.com/cockroachdb/pebble/v2"
	"github.com/cockroachdb/pebble/v2/vfs"
	"github.com/pkg/errors"
)

const pebbleKeyPrefix = "documents/"

// PebbleStore keeps documents in a Pebble key-value store, JSON-encoded.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens the store in dir.
// If dir is empty, an in-memory filesystem is used.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening pebble db in %q", dir)
	}
	return &PebbleStore{db: db}, nil
}

func pebbleKey(path string) []byte {
	return []byte(pebbleKeyPrefix + path)
}

func (s *PebbleStore) Get(path string) (Document, bool, error) {
	data, closer, err := s.db.Get(pebbleKey(path))
	if err == pebble.ErrNotFound {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, errors.Wrapf(err, "reading %s", path)
	}
	// pebble reuses the buffer after Close
	var doc Document
	err = json.Unmarshal(data, &doc)
	closer.Close()
	if err != nil {
		return Document{}, false, errors.Wrapf(err, "decoding %s", path)
	}
	return doc, true, nil
}

func (s *PebbleStore) Put(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", doc.Path)
	}
	return errors.Wrapf(s.db.Set(pebbleKey(doc.Path), data, pebble.Sync), "writing %s", doc.Path)
}

// Delete reads before deleting, since a Pebble delete succeeds for missing keys.
func (s *PebbleStore) Delete(path string) (bool, error) {
	key := pebbleKey(path)
	_, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "deleting %s", path)
	}
	closer.Close()
	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return false, errors.Wrapf(err, "deleting %s", path)
	}
	return true, nil
}

func (s *PebbleStore) All(prefix string) ([]Document, error) {
	lower := pebbleKey(prefix)
	upper := append(append([]byte(nil), lower...), 0xff)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upper,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", prefix)
	}
	defer iter.Close()

	docs := make([]Document, 0)
	for iter.First(); iter.Valid(); iter.Next() {
		var doc Document
		if err := json.Unmarshal(iter.Value(), &doc); err != nil {
			return docs, errors.Wrapf(err, "decoding %s", iter.Key())
		}
		docs = append(docs, doc)
	}
	return docs, errors.Wrapf(iter.Error(), "listing %s", prefix)
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
