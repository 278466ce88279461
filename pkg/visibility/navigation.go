package visibility

import (
	"fmt"

	"github.com/clubworks/go-formflow/pkg/model"
)

// Next identifies what follows the current section: either the flow
// terminates (Submit) or a specific section is reached.
type Next struct {
	Submit    bool
	SectionID string
}

// Resolve determines what "continue" does from the current section, given
// the answers so far. Precedence, first match wins:
//
//  1. the section's terminal choice field has a mapping entry for the
//     currently selected option: follow it (SubmitTarget terminates,
//     otherwise jump to the earliest mapped section);
//  2. the section's own navigation rule.
//
// Sections whose visibility rule evaluates false are skipped over while
// resolving; running past the end of the definition terminates the flow.
func Resolve(def model.Definition, currentSectionID string, answers Answers) (Next, error) {
	current := def.SectionIndex(currentSectionID)
	if current < 0 {
		return Next{}, fmt.Errorf("visibility: section %q not found", currentSectionID)
	}
	section := def.Sections[current]

	if next, ok := resolveMapping(def, section, answers); ok {
		return next, nil
	}

	switch section.Navigation.Type {
	case model.NavSubmit:
		return Next{Submit: true}, nil
	case model.NavSection:
		target := def.SectionIndex(section.Navigation.TargetID)
		if target < 0 {
			return Next{}, fmt.Errorf("visibility: section %q navigation targets unknown section %q", section.ID, section.Navigation.TargetID)
		}
		return skipUnreachable(def, target, answers), nil
	default:
		return skipUnreachable(def, current+1, answers), nil
	}
}

// resolveMapping follows the terminal choice field's per-option mapping.
// The terminal field is the last visible choice field in the section that
// carries a mapping.
func resolveMapping(def model.Definition, section model.Section, answers Answers) (Next, bool) {
	var terminal *model.Field
	for i := range section.Fields {
		field := &section.Fields[i]
		if !field.Type.IsChoice() || field.Choice == nil || len(field.Choice.Mapping) == 0 {
			continue
		}
		if !FieldVisible(*field, answers) {
			continue
		}
		terminal = field
	}
	if terminal == nil {
		return Next{}, false
	}

	targets := mappedTargets(*terminal.Choice, answers[terminal.ID])
	if len(targets) == 0 {
		return Next{}, false
	}

	earliest := -1
	for _, target := range targets {
		if target == model.SubmitTarget {
			return Next{Submit: true}, true
		}
		idx := def.SectionIndex(target)
		if idx < 0 {
			continue
		}
		if earliest < 0 || idx < earliest {
			earliest = idx
		}
	}
	if earliest < 0 {
		return Next{}, false
	}
	return skipUnreachable(def, earliest, answers), true
}

// mappedTargets collects the mapping entries for the currently selected
// option(s) of a choice field.
func mappedTargets(choice model.ChoiceAttrs, answer any) []string {
	var selected []string
	switch typed := answer.(type) {
	case string:
		selected = []string{typed}
	case []string:
		selected = typed
	default:
		return nil
	}

	var out []string
	for _, option := range selected {
		out = append(out, choice.Mapping[option]...)
	}
	return out
}

// skipUnreachable walks forward from the given index until a section whose
// visibility rule passes; exhausting the definition terminates the flow.
func skipUnreachable(def model.Definition, from int, answers Answers) Next {
	for idx := from; idx < len(def.Sections); idx++ {
		if SectionVisible(def.Sections[idx], answers) {
			return Next{SectionID: def.Sections[idx].ID}
		}
	}
	return Next{Submit: true}
}
