// Package docstore abstracts the schemaless document store that persists
// form definitions and submissions. Documents are nested key/value trees;
// implementations never see unsupported values because writers sanitise
// documents before handing them over.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Document is a schemaless nested key/value tree.
type Document = map[string]any

// ErrNotFound reports a missing document.
var ErrNotFound = errors.New("docstore: document not found")

// ErrorKind classifies store failures so callers can tell "log in" apart
// from "retry".
type ErrorKind string

const (
	KindPermission ErrorKind = "permission"
	KindTransient  ErrorKind = "transient"
	KindInternal   ErrorKind = "internal"
)

// StoreError is a failed store operation with enough detail for the UI to
// suggest a recovery.
type StoreError struct {
	Kind       ErrorKind
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("docstore: %s %s: %s (%s)", e.Op, e.Collection, e.Err, e.Kind)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsPermission reports whether err is a permission-denied store failure.
func IsPermission(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr) && storeErr.Kind == KindPermission
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr) && storeErr.Kind == KindTransient
}

// Store is the document store contract the core consumes.
type Store interface {
	// Get fetches one document. Missing documents surface ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Put writes a whole document. An empty id asks the store to assign
	// one; the effective id is returned.
	Put(ctx context.Context, collection, id string, doc Document) (string, error)
	// Query returns every document whose field equals the given value.
	// Field may be a dot path into nested maps.
	Query(ctx context.Context, collection, field string, equals any) ([]Document, error)
}

// Lookup walks a dot path through nested maps. Shared by the in-memory
// store and tests.
func Lookup(doc Document, path string) (any, bool) {
	if doc == nil || strings.TrimSpace(path) == "" {
		return nil, false
	}
	// Exact key wins so answer keys containing dots stay addressable.
	if value, ok := doc[path]; ok {
		return value, true
	}

	var current any = map[string]any(doc)
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
