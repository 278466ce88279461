// Package sqlitestore persists documents in SQLite via the pure-Go
// modernc.org/sqlite driver. Documents are stored as JSON text and
// equality queries use json_extract, which keeps the store schemaless the
// way the docstore contract expects.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/clubworks/go-formflow/pkg/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);`

// Store is a docstore.Store backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (and initialises) a store at the given path. Use ":memory:"
// for throwaway databases in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get", collection, err)
	}

	var doc docstore.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, storeErr("get", collection, err)
	}
	return doc, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, doc docstore.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", storeErr("put", collection, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body`,
		collection, id, string(body),
	)
	if err != nil {
		return "", storeErr("put", collection, err)
	}
	return id, nil
}

func (s *Store) Query(ctx context.Context, collection, field string, equals any) ([]docstore.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND json_extract(body, ?) = ?`,
		collection, jsonPath(field), equals,
	)
	if err != nil {
		return nil, storeErr("query", collection, err)
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, storeErr("query", collection, err)
		}
		var doc docstore.Document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, storeErr("query", collection, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("query", collection, err)
	}
	return out, nil
}

// jsonPath converts a dot path into a SQLite JSON path, quoting each
// segment so keys with spaces stay addressable.
func jsonPath(field string) string {
	var b strings.Builder
	b.WriteString("$")
	for _, part := range strings.Split(field, ".") {
		fmt.Fprintf(&b, `."%s"`, strings.ReplaceAll(part, `"`, `""`))
	}
	return b.String()
}

func storeErr(op, collection string, err error) error {
	kind := docstore.KindInternal
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = docstore.KindTransient
	}
	return &docstore.StoreError{Kind: kind, Op: op, Collection: collection, Err: err}
}
