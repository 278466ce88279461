package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Disk stores blobs under a base directory. The deletion reference is the
// path relative to the base, so references stay valid across restarts.
type Disk struct {
	base    string
	baseURL string
}

// NewDisk creates a store rooted at base. baseURL is prefixed onto stored
// paths to form the public URL, e.g. "http://localhost:8080/uploads".
func NewDisk(base, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create %s: %w", base, err)
	}
	return &Disk{base: base, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (d *Disk) Upload(ctx context.Context, file File, folder string) (StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return StoredFile{}, fmt.Errorf("filestore: upload %s: %w", file.Name, err)
	}

	rel := filepath.Join(cleanSegment(folder), uuid.NewString(), cleanSegment(file.Name))
	dest := filepath.Join(d.base, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("filestore: upload %s: %w", file.Name, err)
	}
	if err := os.WriteFile(dest, file.Content, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("filestore: upload %s: %w", file.Name, err)
	}

	return StoredFile{
		URL: d.baseURL + "/" + filepath.ToSlash(rel),
		Ref: filepath.ToSlash(rel),
	}, nil
}

func (d *Disk) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("filestore: delete %s: %w", ref, err)
	}

	dest := filepath.Join(d.base, filepath.FromSlash(ref))
	if err := os.Remove(dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("filestore: delete %s: %w", ref, err)
	}
	// Drop the per-upload directory too; ignore failures, it may be shared.
	_ = os.Remove(filepath.Dir(dest))
	return nil
}

// cleanSegment strips path traversal out of caller-supplied names.
func cleanSegment(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) {
		return "unnamed"
	}
	return name
}
