package tui

import (
	"os"
	"path/filepath"

	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/model"
)

// FileReader loads a local path into an upload blob when the registrant
// answers a file field.
type FileReader func(path string) (*filestore.File, error)

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver, typically with a scripted
// one in tests.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithFileReader overrides how file-field answers are loaded from disk.
func WithFileReader(read FileReader) Option {
	return func(r *Runner) {
		if read != nil {
			r.readFile = read
		}
	}
}

func readLocalFile(path string) (*filestore.File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &filestore.File{
		Name:        filepath.Base(path),
		ContentType: contentTypeFor(path),
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// promptLabel builds the message shown for a field, marking required ones.
func promptLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = "Answer"
	}
	if field.Required {
		label += " *"
	}
	return label
}
