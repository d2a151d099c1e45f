package store

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/pkg/errors"
)

// SQLiteStore keeps documents in a SQLite database.
type SQLiteStore struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteStore opens (and if needed creates) the database in filename.
// If file name is empty, a new in-memory db is opened.
func NewSQLiteStore(filename string) (*SQLiteStore, error) {
	if filename == "" {
		filename = ":memory:"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	// an in-memory database lives as long as its single connection
	if filename == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			modified INTEGER NOT NULL,
			body BLOB
		)`,
		"PRAGMA journal_mode=WAL",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "initializing %s", filename)
		}
	}
	return &SQLiteStore{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s *SQLiteStore) Get(path string) (Document, bool, error) {
	doc := Document{Path: path}
	var modified int64
	err := s.db.QueryRow(
		"SELECT content_type, modified, body FROM documents WHERE path = ?", path,
	).Scan(&doc.ContentType, &modified, &doc.Body)
	if err == sql.ErrNoRows {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, errors.Wrapf(err, "reading %s", path)
	}
	doc.Modified = time.Unix(0, modified).UTC()
	return doc, true, nil
}

func (s *SQLiteStore) Put(doc Document) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO documents (path, content_type, modified, body) VALUES (?, ?, ?, ?)",
		doc.Path, doc.ContentType, doc.Modified.UnixNano(), doc.Body)
	return errors.Wrapf(err, "writing %s", doc.Path)
}

func (s *SQLiteStore) Delete(path string) (bool, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	result, err := s.db.Exec("DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return false, errors.Wrapf(err, "deleting %s", path)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "deleting %s", path)
	}
	return rows > 0, nil
}

func (s *SQLiteStore) All(prefix string) ([]Document, error) {
	docs := make([]Document, 0)
	rows, err := s.db.Query(`SELECT path, content_type, modified, body
		FROM documents WHERE path LIKE ? ESCAPE '\' ORDER BY path`, likePrefix(prefix))
	if err != nil {
		return docs, errors.Wrapf(err, "listing %s", prefix)
	}
	defer rows.Close()
	for rows.Next() {
		var doc Document
		var modified int64
		if err := rows.Scan(&doc.Path, &doc.ContentType, &modified, &doc.Body); err != nil {
			return docs, errors.Wrapf(err, "listing %s", prefix)
		}
		// LIKE is case-insensitive for ASCII
		if !hasPrefix(doc.Path, prefix) {
			continue
		}
		doc.Modified = time.Unix(0, modified).UTC()
		docs = append(docs, doc)
	}
	return docs, errors.Wrapf(rows.Err(), "listing %s", prefix)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
