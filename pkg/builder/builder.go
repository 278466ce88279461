// Package builder implements the authoring engine that mutates form
// definitions. Every operation produces a new, validated definition; the
// caller's copy is never edited in place. Structural violations reject the
// edit with a ConfigurationError, hard minimums with a GuardrailError, and
// boundary moves are silent no-ops.
package builder

import (
	"context"
	"fmt"

	"github.com/clubworks/go-formflow/pkg/identity"
	"github.com/clubworks/go-formflow/pkg/model"
)

// Direction selects which sibling a move operation swaps with.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ChangeListener observes every successful edit. Listeners run
// synchronously in registration order; persisting the new definition (or
// not) is entirely the listener's decision.
type ChangeListener func(model.Definition)

// OpenSettingsListener is the side channel notified when a freshly added
// field is of a kind whose defaults are rarely useful as-is (label, image,
// link, rating), so authoring UIs can open its settings editor immediately.
type OpenSettingsListener func(fieldID string)

// Option customises an Engine.
type Option func(*Engine)

// WithIdentity wires the session provider consulted before every mutating
// operation. Without one the engine allows all edits, which suits tests
// and single-user tooling.
func WithIdentity(provider identity.Provider) Option {
	return func(e *Engine) {
		e.identity = provider
	}
}

// WithChangeListener registers a listener for successful edits.
func WithChangeListener(listener ChangeListener) Option {
	return func(e *Engine) {
		if listener != nil {
			e.onChange = append(e.onChange, listener)
		}
	}
}

// WithOpenSettingsListener registers the open-settings side channel.
func WithOpenSettingsListener(listener OpenSettingsListener) Option {
	return func(e *Engine) {
		e.onOpenSettings = listener
	}
}

// Engine holds the definition currently being authored and applies edits
// to it. It is not safe for concurrent use; a definition is owned by a
// single authoring session at a time.
type Engine struct {
	def            model.Definition
	identity       identity.Provider
	onChange       []ChangeListener
	onOpenSettings OpenSettingsListener
}

// New constructs an engine over the given definition. An empty definition
// is replaced with the minimal one-section shape so guardrails hold from
// the first edit.
func New(def model.Definition, options ...Option) *Engine {
	if len(def.Sections) == 0 {
		def = model.New()
	}
	e := &Engine{def: def.Clone()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Definition returns a copy of the current definition.
func (e *Engine) Definition() model.Definition {
	return e.def.Clone()
}

func (e *Engine) authorize(ctx context.Context) error {
	if e.identity == nil {
		return nil
	}
	if !e.identity.CurrentActor(ctx).Authorized {
		return ErrNotAuthorized
	}
	return nil
}

// commit validates the candidate definition, swaps it in, and notifies
// listeners. On validation failure the engine's definition is unchanged.
func (e *Engine) commit(op string, candidate model.Definition) (model.Definition, error) {
	if err := validateStructure(op, candidate); err != nil {
		return model.Definition{}, err
	}
	e.def = candidate
	for _, listener := range e.onChange {
		listener(candidate.Clone())
	}
	return candidate.Clone(), nil
}

// nextSectionTitle numbers the new section from the section count, then
// scans upward past titles already in use so a middle insert (or an
// insert after deletes) never duplicates an existing title.
func nextSectionTitle(def model.Definition) string {
	taken := make(map[string]struct{}, len(def.Sections))
	for i := range def.Sections {
		taken[def.Sections[i].Title] = struct{}{}
	}
	for n := len(def.Sections) + 1; ; n++ {
		title := fmt.Sprintf("Section %d", n)
		if _, ok := taken[title]; !ok {
			return title
		}
	}
}

// AddSection appends a section titled "Section N". The appended section
// becomes the last one and therefore terminates in submit; the previously
// last section is relaxed to linear navigation if it still submitted.
func (e *Engine) AddSection(ctx context.Context) (model.Definition, error) {
	return e.InsertSectionAfter(ctx, len(e.def.Sections)-1)
}

// InsertSectionAfter inserts a new section immediately after the given
// index. Out-of-range indexes clamp to the ends.
func (e *Engine) InsertSectionAfter(ctx context.Context, index int) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	section := model.NewSection(nextSectionTitle(def))

	at := index + 1
	if at < 0 {
		at = 0
	}
	if at > len(def.Sections) {
		at = len(def.Sections)
	}

	def.Sections = append(def.Sections, model.Section{})
	copy(def.Sections[at+1:], def.Sections[at:])
	def.Sections[at] = section

	if at == len(def.Sections)-1 {
		def.Sections[at].Navigation = model.Navigation{Type: model.NavSubmit}
		if at > 0 && def.Sections[at-1].Navigation.Type == model.NavSubmit {
			def.Sections[at-1].Navigation = model.Navigation{Type: model.NavNext}
		}
	}

	return e.commit("insert section", def)
}

// SectionPatch carries the updatable section attributes. Nil entries leave
// the current value untouched.
type SectionPatch struct {
	Title          *string
	Description    *string
	Conditional    *model.Condition
	Navigation     *model.Navigation
	SkipValidation *bool
}

// UpdateSection applies a patch to the named section. Navigation changes
// that point backward (or at the section itself) are rejected with a
// ConfigurationError.
func (e *Engine) UpdateSection(ctx context.Context, sectionID string, patch SectionPatch) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	idx := def.SectionIndex(sectionID)
	if idx < 0 {
		return model.Definition{}, configErr("update section", "section %q not found", sectionID)
	}

	section := &def.Sections[idx]
	if patch.Title != nil {
		section.Title = *patch.Title
	}
	if patch.Description != nil {
		section.Description = *patch.Description
	}
	if patch.Conditional != nil {
		cond := *patch.Conditional
		section.Conditional = &cond
	}
	if patch.Navigation != nil {
		section.Navigation = *patch.Navigation
	}
	if patch.SkipValidation != nil {
		section.SkipValidation = *patch.SkipValidation
	}

	return e.commit("update section", def)
}

// DeleteSection removes the named section. The last remaining section may
// never be deleted. The second return value is the deterministic fallback
// for a caller whose active-section pointer referenced the deleted one:
// the section now occupying the deleted index, else the first section.
func (e *Engine) DeleteSection(ctx context.Context, sectionID string) (model.Definition, string, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, "", err
	}

	def := e.def.Clone()
	idx := def.SectionIndex(sectionID)
	if idx < 0 {
		return model.Definition{}, "", configErr("delete section", "section %q not found", sectionID)
	}
	if len(def.Sections) == 1 {
		return model.Definition{}, "", guardrailErr("delete section", "a form must have at least one section")
	}

	def.Sections = append(def.Sections[:idx], def.Sections[idx+1:]...)

	fallback := idx
	if fallback >= len(def.Sections) {
		fallback = 0
	}
	fallbackID := def.Sections[fallback].ID

	committed, err := e.commit("delete section", def)
	if err != nil {
		return model.Definition{}, "", err
	}
	return committed, fallbackID, nil
}

// MoveSection swaps a section with its adjacent sibling. Moves past the
// list boundaries are no-ops. A swap that would break forward-only
// navigation is rejected with a ConfigurationError.
func (e *Engine) MoveSection(ctx context.Context, sectionID string, direction Direction) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	idx := def.SectionIndex(sectionID)
	if idx < 0 {
		return model.Definition{}, configErr("move section", "section %q not found", sectionID)
	}

	target := idx - 1
	if direction == DirectionDown {
		target = idx + 1
	}
	if target < 0 || target >= len(def.Sections) {
		return e.def.Clone(), nil
	}

	def.Sections[idx], def.Sections[target] = def.Sections[target], def.Sections[idx]
	return e.commit("move section", def)
}

// AddField creates a field of the given type at the end of the target
// section. Input fields start with a generic label the author is expected
// to replace; fields whose defaults need immediate editing trigger the
// open-settings side channel.
func (e *Engine) AddField(ctx context.Context, fieldType model.FieldType, sectionID string) (model.Definition, model.Field, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, model.Field{}, err
	}

	def := e.def.Clone()
	idx := def.SectionIndex(sectionID)
	if idx < 0 {
		return model.Definition{}, model.Field{}, configErr("add field", "section %q not found", sectionID)
	}

	label := ""
	if fieldType.Kind() == model.KindInput {
		label = "Untitled question"
	}
	field := model.NewField(fieldType, label)
	def.Sections[idx].Fields = append(def.Sections[idx].Fields, field)

	committed, err := e.commit("add field", def)
	if err != nil {
		return model.Definition{}, model.Field{}, err
	}

	if e.onOpenSettings != nil {
		switch field.Type {
		case model.FieldLabel, model.FieldImage, model.FieldLink, model.FieldRating:
			e.onOpenSettings(field.ID)
		}
	}
	return committed, field, nil
}

// DeleteField removes the named field wherever it lives.
func (e *Engine) DeleteField(ctx context.Context, fieldID string) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	_, sectionIdx, ok := def.FieldByID(fieldID)
	if !ok {
		return model.Definition{}, configErr("delete field", "field %q not found", fieldID)
	}

	section := &def.Sections[sectionIdx]
	at := section.FieldIndex(fieldID)
	section.Fields = append(section.Fields[:at], section.Fields[at+1:]...)

	return e.commit("delete field", def)
}

// DuplicateField inserts a copy immediately after the original with a
// fresh id and a " (Copy)" label suffix; every other attribute is
// identical.
func (e *Engine) DuplicateField(ctx context.Context, fieldID string) (model.Definition, model.Field, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, model.Field{}, err
	}

	def := e.def.Clone()
	original, sectionIdx, ok := def.FieldByID(fieldID)
	if !ok {
		return model.Definition{}, model.Field{}, configErr("duplicate field", "field %q not found", fieldID)
	}

	duplicate := original.Clone()
	duplicate.ID = model.NewID()
	if duplicate.Label != "" {
		duplicate.Label += " (Copy)"
	}

	section := &def.Sections[sectionIdx]
	at := section.FieldIndex(fieldID) + 1
	section.Fields = append(section.Fields, model.Field{})
	copy(section.Fields[at+1:], section.Fields[at:])
	section.Fields[at] = duplicate

	committed, err := e.commit("duplicate field", def)
	if err != nil {
		return model.Definition{}, model.Field{}, err
	}
	return committed, duplicate, nil
}

// MoveField swaps a field with its neighbour inside its owning section.
// Moves past either end are no-ops.
func (e *Engine) MoveField(ctx context.Context, fieldID string, direction Direction) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	_, sectionIdx, ok := def.FieldByID(fieldID)
	if !ok {
		return model.Definition{}, configErr("move field", "field %q not found", fieldID)
	}

	section := &def.Sections[sectionIdx]
	idx := section.FieldIndex(fieldID)
	target := idx - 1
	if direction == DirectionDown {
		target = idx + 1
	}
	if target < 0 || target >= len(section.Fields) {
		return e.def.Clone(), nil
	}

	section.Fields[idx], section.Fields[target] = section.Fields[target], section.Fields[idx]
	return e.commit("move field", def)
}
