// Package formflow builds, renders, and validates dynamic registration
// forms. The root package re-exports the common types and wires the
// storage collaborators into a ready-to-use registration pipeline;
// advanced callers work with the pkg/ packages directly.
package formflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clubworks/go-formflow/pkg/builder"
	"github.com/clubworks/go-formflow/pkg/docstore"
	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/repository"
	"github.com/clubworks/go-formflow/pkg/submission"
)

// Definition is the persisted form a registrant walks through.
type Definition = model.Definition

// Section groups fields with a visibility and navigation rule.
type Section = model.Section

// Field is one form element.
type Field = model.Field

// FieldPatch carries partial field updates for the builder.
type FieldPatch = builder.FieldPatch

// SectionPatch carries partial section updates for the builder.
type SectionPatch = builder.SectionPatch

// Submission is a finalized, validated registration.
type Submission = submission.Submission

// Payment carries a registrant's payment material.
type Payment = submission.Payment

// PaymentConfig is an activity's payment policy.
type PaymentConfig = submission.PaymentConfig

// NewBuilder constructs an authoring engine, starting from the default
// template when no definition is supplied.
func NewBuilder(options ...builder.Option) *builder.Engine {
	return builder.New(model.DefaultTemplate(), options...)
}

// LoadDefinition reads a definition from a JSON or YAML file, chosen by
// extension.
func LoadDefinition(path string) (model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Definition{}, fmt.Errorf("formflow: read %s: %w", path, err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return model.ParseYAML(data)
	default:
		return model.ParseJSON(data)
	}
}

// Registrar bundles the definition store, file storage, and submission
// processor into the end-to-end registration pipeline.
type Registrar struct {
	repo      *repository.Repository
	processor *submission.Processor
}

// NewRegistrar wires a registrar over the given collaborators.
func NewRegistrar(store docstore.Store, files filestore.Storage, options ...submission.Option) *Registrar {
	repo := repository.New(store)
	return &Registrar{
		repo:      repo,
		processor: submission.NewProcessor(files, repo, options...),
	}
}

// Repository exposes the underlying typed store, e.g. for serving
// definitions over HTTP.
func (r *Registrar) Repository() *repository.Repository {
	return r.repo
}

// Processor exposes the underlying submission processor.
func (r *Registrar) Processor() *submission.Processor {
	return r.processor
}

// SaveDefinition persists an activity's form definition.
func (r *Registrar) SaveDefinition(ctx context.Context, activityID string, def model.Definition) error {
	return r.repo.SaveDefinition(ctx, activityID, def)
}

// Register validates and persists one registration against the activity's
// stored definition, returning the assigned submission id.
func (r *Registrar) Register(ctx context.Context, activityID string, answers map[string]any, payment Payment, cfg PaymentConfig) (string, Submission, error) {
	def, err := r.repo.LoadDefinition(ctx, activityID)
	if err != nil {
		return "", Submission{}, err
	}
	sub, err := r.processor.Process(ctx, activityID, def, answers, payment, cfg)
	if err != nil {
		return "", Submission{}, err
	}
	id, err := r.repo.SaveSubmission(ctx, sub)
	if err != nil {
		return "", Submission{}, err
	}
	return id, sub, nil
}
