package store

import (
	"sync"
)

// MemStore keeps documents in a map.
type MemStore struct {
	docs  map[string]Document
	mutex sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]Document)}
}

func (m *MemStore) Get(path string) (Document, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return Document{}, false, nil
	}
	return copyDocument(doc), true, nil
}

func (m *MemStore) Put(doc Document) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.docs[doc.Path] = copyDocument(doc)
	return nil
}

func (m *MemStore) Delete(path string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	_, ok := m.docs[path]
	delete(m.docs, path)
	return ok, nil
}

func (m *MemStore) All(prefix string) ([]Document, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	docs := make([]Document, 0)
	for path, doc := range m.docs {
		if hasPrefix(path, prefix) {
			docs = append(docs, copyDocument(doc))
		}
	}
	sortByPath(docs)
	return docs, nil
}

func (m *MemStore) Close() error {
	return nil
}

// the body slice must not be shared with callers
func copyDocument(doc Document) Document {
	doc.Body = append([]byte(nil), doc.Body...)
	return doc
}
