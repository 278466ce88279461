// Package visibility evaluates which fields and sections of a form
// definition are shown for a given set of answers, and which section
// follows the current one when the registrant continues.
//
// Every function is pure: callers re-evaluate on each answer change so
// conditional reveals are immediate, with no extra trigger required.
package visibility

import (
	"github.com/clubworks/go-formflow/pkg/model"
)

// Answers maps field ids to the registrant's current raw answers: strings
// for single-value inputs, string slices for multi-select checkboxes.
type Answers map[string]any

// conditionMet reports whether a visibility rule passes. Disabled or
// absent rules always pass. Comparison is string equality with no
// number/string coercion; a multi-select answer passes when any selected
// option equals the expected value.
func conditionMet(cond *model.Condition, answers Answers) bool {
	if cond == nil || !cond.Enabled {
		return true
	}
	value, ok := answers[cond.FieldID]
	if !ok {
		return false
	}
	switch typed := value.(type) {
	case string:
		return typed == cond.Equals
	case []string:
		for _, item := range typed {
			if item == cond.Equals {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FieldVisible reports whether a field should currently be shown.
func FieldVisible(field model.Field, answers Answers) bool {
	return conditionMet(field.Conditional, answers)
}

// SectionVisible reports whether a section is currently reachable.
func SectionVisible(section model.Section, answers Answers) bool {
	return conditionMet(section.Conditional, answers)
}

// VisibleFields returns the section's fields to display, in render order.
func VisibleFields(section model.Section, answers Answers) []model.Field {
	out := make([]model.Field, 0, len(section.Fields))
	for _, field := range section.Fields {
		if FieldVisible(field, answers) {
			out = append(out, field)
		}
	}
	return out
}
