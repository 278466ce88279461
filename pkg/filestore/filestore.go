// Package filestore abstracts the blob storage that registration file
// answers are uploaded to. Implementations are expected to be safe for
// concurrent use; the submission processor uploads files in parallel.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Delete when the reference is unknown.
var ErrNotFound = errors.New("filestore: file not found")

// File is an incoming blob to store.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// StoredFile describes a stored blob. URL is what gets embedded into the
// registration answer; Ref is the handle used for later deletion.
type StoredFile struct {
	URL string
	Ref string
}

// Storage stores and deletes uploaded files.
type Storage interface {
	// Upload stores the file under the given folder and returns its
	// public URL together with a deletion reference.
	Upload(ctx context.Context, file File, folder string) (StoredFile, error)

	// Delete removes a previously uploaded file. Deleting an unknown
	// reference returns ErrNotFound.
	Delete(ctx context.Context, ref string) error
}

// Memory is an in-process Storage for tests and local development.
type Memory struct {
	mu    sync.Mutex
	blobs map[string]File
}

func NewMemory() *Memory {
	return &Memory{blobs: map[string]File{}}
}

func (m *Memory) Upload(ctx context.Context, file File, folder string) (StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return StoredFile{}, fmt.Errorf("filestore: upload %s: %w", file.Name, err)
	}

	ref := folder + "/" + uuid.NewString()

	m.mu.Lock()
	m.blobs[ref] = file
	m.mu.Unlock()

	return StoredFile{
		URL: "memory://" + ref + "/" + file.Name,
		Ref: ref,
	}, nil
}

func (m *Memory) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("filestore: delete %s: %w", ref, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[ref]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, ref)
	return nil
}

// Len reports how many blobs are currently stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
