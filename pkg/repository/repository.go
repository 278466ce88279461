// Package repository persists form definitions and submissions through a
// docstore.Store, one whole document per save. It also answers the
// uniqueness queries the submission processor runs against prior
// registrations.
package repository

import (
	"context"
	"fmt"

	"github.com/clubworks/go-formflow/pkg/docstore"
	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/submission"
)

const (
	collectionForms         = "formDefinitions"
	collectionRegistrations = "registrations"
)

// Repository stores definitions keyed by their owning activity id and
// appends immutable submission records.
type Repository struct {
	store docstore.Store
}

func New(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// SaveDefinition persists the whole definition for an activity,
// replacing any previous version.
func (r *Repository) SaveDefinition(ctx context.Context, activityID string, def model.Definition) error {
	doc, err := def.Document()
	if err != nil {
		return fmt.Errorf("repository: encode definition: %w", err)
	}
	if _, err := r.store.Put(ctx, collectionForms, activityID, doc); err != nil {
		return fmt.Errorf("repository: save definition %s: %w", activityID, err)
	}
	return nil
}

// LoadDefinition returns the stored definition for an activity. A missing
// document surfaces as docstore.ErrNotFound.
func (r *Repository) LoadDefinition(ctx context.Context, activityID string) (model.Definition, error) {
	doc, err := r.store.Get(ctx, collectionForms, activityID)
	if err != nil {
		return model.Definition{}, fmt.Errorf("repository: load definition %s: %w", activityID, err)
	}
	def, err := model.FromDocument(doc)
	if err != nil {
		return model.Definition{}, fmt.Errorf("repository: decode definition %s: %w", activityID, err)
	}
	return def, nil
}

// SaveSubmission appends a finalized submission and returns its assigned
// id. Submissions are immutable; there is no update or delete path.
func (r *Repository) SaveSubmission(ctx context.Context, sub submission.Submission) (string, error) {
	id, err := r.store.Put(ctx, collectionRegistrations, "", sub.Document())
	if err != nil {
		return "", fmt.Errorf("repository: save submission: %w", err)
	}
	return id, nil
}

// Submissions returns every stored submission document for an activity.
func (r *Repository) Submissions(ctx context.Context, activityID string) ([]docstore.Document, error) {
	docs, err := r.store.Query(ctx, collectionRegistrations, "activityId", activityID)
	if err != nil {
		return nil, fmt.Errorf("repository: list submissions %s: %w", activityID, err)
	}
	return docs, nil
}

// HasAnswer reports whether any prior submission for the activity carries
// the exact value under the given answer key. Answer keys may contain
// dots, so the comparison reads the answers map directly instead of
// re-querying by path.
func (r *Repository) HasAnswer(ctx context.Context, activityID, answerKey string, value any) (bool, error) {
	docs, err := r.Submissions(ctx, activityID)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		answers, ok := doc["answers"].(map[string]any)
		if !ok {
			continue
		}
		if prior, ok := answers[answerKey]; ok && fmt.Sprint(prior) == fmt.Sprint(value) {
			return true, nil
		}
	}
	return false, nil
}
