package builder

import (
	"github.com/clubworks/go-formflow/pkg/model"
)

// validateStructure enforces the ordering invariants on every structural
// mutation: navigation and mapping targets point strictly forward,
// conditional sources point at the same or an earlier section, and option
// lists are never empty. Violations reject the edit.
func validateStructure(op string, def model.Definition) error {
	sectionIndex := make(map[string]int, len(def.Sections))
	for i := range def.Sections {
		sectionIndex[def.Sections[i].ID] = i
	}

	fieldSection := make(map[string]int)
	for i := range def.Sections {
		for j := range def.Sections[i].Fields {
			fieldSection[def.Sections[i].Fields[j].ID] = i
		}
	}

	for i := range def.Sections {
		section := def.Sections[i]

		if section.Navigation.Type == model.NavSection {
			target, ok := sectionIndex[section.Navigation.TargetID]
			if !ok {
				return configErr(op, "section %q navigation targets unknown section %q", section.ID, section.Navigation.TargetID)
			}
			if target <= i {
				return configErr(op, "section %q navigation must target a later section, not %q", section.ID, section.Navigation.TargetID)
			}
		}

		if cond := section.Conditional; cond != nil && cond.Enabled {
			source, ok := fieldSection[cond.FieldID]
			if !ok {
				return configErr(op, "section %q visibility references unknown field %q", section.ID, cond.FieldID)
			}
			if source >= i {
				return configErr(op, "section %q visibility must reference a field in an earlier section", section.ID)
			}
		}

		for j := range section.Fields {
			field := section.Fields[j]

			if field.Choice != nil {
				if len(field.Choice.Options) == 0 {
					return configErr(op, "field %q has an empty option list", field.ID)
				}
				for option, targets := range field.Choice.Mapping {
					for _, target := range targets {
						if target == model.SubmitTarget {
							continue
						}
						idx, ok := sectionIndex[target]
						if !ok {
							return configErr(op, "field %q maps option %q to unknown section %q", field.ID, option, target)
						}
						if idx <= i {
							return configErr(op, "field %q maps option %q backward to section %q", field.ID, option, target)
						}
					}
				}
			}

			if cond := field.Conditional; cond != nil && cond.Enabled {
				source, ok := fieldSection[cond.FieldID]
				if !ok {
					return configErr(op, "field %q visibility references unknown field %q", field.ID, cond.FieldID)
				}
				if source > i {
					return configErr(op, "field %q visibility must reference a field in the same or an earlier section", field.ID)
				}
				if cond.FieldID == field.ID {
					return configErr(op, "field %q visibility cannot reference itself", field.ID)
				}
			}
		}
	}

	return nil
}
