package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory Store for tests, examples, and single-process
// tooling. Safe for concurrent use; documents are deep-copied on the way
// in and out so callers never share state with the store.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(doc)
}

func (m *Memory) Put(ctx context.Context, collection, id string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	stored, err := deepCopy(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = stored
	return id, nil
}

func (m *Memory) Query(ctx context.Context, collection, field string, equals any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, doc := range m.collections[collection] {
		value, ok := Lookup(doc, field)
		if !ok || fmt.Sprint(value) != fmt.Sprint(equals) {
			continue
		}
		copied, err := deepCopy(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, copied)
	}
	return out, nil
}

// deepCopy round-trips through JSON, which doubles as the guard that the
// document only holds representable values.
func deepCopy(doc Document) (Document, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, &StoreError{Kind: KindInternal, Op: "encode", Collection: "", Err: err}
	}
	var out Document
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, &StoreError{Kind: KindInternal, Op: "decode", Collection: "", Err: err}
	}
	return out, nil
}
