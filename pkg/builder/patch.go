package builder

import (
	"context"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/clubworks/go-formflow/pkg/model"
)

// FieldPatch carries the envelope attributes every field shares plus the
// common choice conveniences. Nil entries leave the current value
// untouched. Variant-specific attributes beyond options and uniqueness go
// through PatchFieldAttrs.
type FieldPatch struct {
	Label       *string
	Required    *bool
	Placeholder *string
	HelpText    *string
	Conditional *model.Condition
	Options     *[]string
	Mapping     *map[string][]string
	Unique      *bool
}

// UpdateField applies a typed patch to the named field. Conditional and
// mapping edits are validated against the usual ordering invariants.
func (e *Engine) UpdateField(ctx context.Context, fieldID string, patch FieldPatch) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	_, sectionIdx, ok := def.FieldByID(fieldID)
	if !ok {
		return model.Definition{}, configErr("update field", "field %q not found", fieldID)
	}

	section := &def.Sections[sectionIdx]
	field := &section.Fields[section.FieldIndex(fieldID)]

	if patch.Label != nil {
		field.Label = *patch.Label
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Placeholder != nil {
		field.Placeholder = *patch.Placeholder
	}
	if patch.HelpText != nil {
		field.HelpText = *patch.HelpText
	}
	if patch.Conditional != nil {
		cond := *patch.Conditional
		field.Conditional = &cond
	}
	if patch.Options != nil {
		if field.Choice == nil {
			return model.Definition{}, configErr("update field", "field %q has no option list", fieldID)
		}
		if len(*patch.Options) == 0 {
			return model.Definition{}, configErr("update field", "option list of %q must not be empty", fieldID)
		}
		field.Choice.Options = append([]string(nil), (*patch.Options)...)
	}
	if patch.Mapping != nil {
		if field.Choice == nil {
			return model.Definition{}, configErr("update field", "field %q has no option mapping", fieldID)
		}
		mapping := make(map[string][]string, len(*patch.Mapping))
		for option, targets := range *patch.Mapping {
			mapping[option] = append([]string(nil), targets...)
		}
		field.Choice.Mapping = mapping
	}
	if patch.Unique != nil {
		if !field.Type.SupportsUnique() {
			return model.Definition{}, configErr("update field", "field %q (%s) cannot carry a uniqueness constraint", fieldID, field.Type)
		}
		if field.Input == nil {
			field.Input = &model.InputAttrs{}
		}
		field.Input.Unique = *patch.Unique
	}

	return e.commit("update field", def)
}

// PatchFieldAttrs applies an RFC 7386 JSON merge patch to the whole field,
// covering the long tail of variant-specific style and content attributes.
// The field's id and type are immutable and survive any patch.
func (e *Engine) PatchFieldAttrs(ctx context.Context, fieldID string, mergePatch []byte) (model.Definition, error) {
	if err := e.authorize(ctx); err != nil {
		return model.Definition{}, err
	}

	def := e.def.Clone()
	_, sectionIdx, ok := def.FieldByID(fieldID)
	if !ok {
		return model.Definition{}, configErr("patch field", "field %q not found", fieldID)
	}

	section := &def.Sections[sectionIdx]
	at := section.FieldIndex(fieldID)
	field := section.Fields[at]

	current, err := json.Marshal(field)
	if err != nil {
		return model.Definition{}, configErr("patch field", "encode field %q: %v", fieldID, err)
	}
	merged, err := jsonpatch.MergePatch(current, mergePatch)
	if err != nil {
		return model.Definition{}, configErr("patch field", "apply merge patch to %q: %v", fieldID, err)
	}

	var patched model.Field
	if err := json.Unmarshal(merged, &patched); err != nil {
		return model.Definition{}, configErr("patch field", "decode patched field %q: %v", fieldID, err)
	}
	patched.ID = field.ID
	patched.Type = field.Type

	section.Fields[at] = patched
	return e.commit("patch field", def)
}
