package model

// Definition is the persisted, ordered set of sections an activity's
// registration form consists of. It is edited exclusively through the
// builder package and stored as a whole document on every save.
type Definition struct {
	Sections []Section `json:"sections" yaml:"sections"`
}

// New returns an empty definition holding one default section that
// terminates in submit, the minimal shape the builder accepts.
func New() Definition {
	section := NewSection("Section 1")
	section.Navigation = Navigation{Type: NavSubmit}
	return Definition{Sections: []Section{section}}
}

// FromSections wraps an already structured section list.
func FromSections(sections []Section) Definition {
	def := Definition{Sections: make([]Section, len(sections))}
	for i := range sections {
		def.Sections[i] = sections[i].Clone()
	}
	return def
}

// FromLegacyFields wraps the historical flat field list format into a
// single implicit section so old stored forms keep loading.
func FromLegacyFields(fields []Field) Definition {
	section := NewSection("Section 1")
	section.Navigation = Navigation{Type: NavSubmit}
	section.Fields = make([]Field, len(fields))
	for i := range fields {
		section.Fields[i] = fields[i].Clone()
	}
	return Definition{Sections: []Section{section}}
}

// SectionIndex returns the position of the section with the given id,
// or -1 when absent.
func (d Definition) SectionIndex(sectionID string) int {
	for i := range d.Sections {
		if d.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}

// SectionByID returns the section with the given id.
func (d Definition) SectionByID(sectionID string) (Section, bool) {
	idx := d.SectionIndex(sectionID)
	if idx < 0 {
		return Section{}, false
	}
	return d.Sections[idx], true
}

// FieldByID locates a field anywhere in the definition, returning its
// owning section index as well.
func (d Definition) FieldByID(fieldID string) (Field, int, bool) {
	for i := range d.Sections {
		if idx := d.Sections[i].FieldIndex(fieldID); idx >= 0 {
			return d.Sections[i].Fields[idx], i, true
		}
	}
	return Field{}, -1, false
}

// Fields returns every field in definition order. Useful for completeness
// and uniqueness scans.
func (d Definition) Fields() []Field {
	var out []Field
	for i := range d.Sections {
		out = append(out, d.Sections[i].Fields...)
	}
	return out
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	out := Definition{Sections: make([]Section, len(d.Sections))}
	for i := range d.Sections {
		out.Sections[i] = d.Sections[i].Clone()
	}
	return out
}

// Warnings reports advisory issues that do not block saving: today that is
// a final section that does not terminate in submit while no choice mapping
// routes to submit earlier. Choice branching may legitimately end the flow
// before the last section, so this is a warning rather than an invariant.
func (d Definition) Warnings() []string {
	if len(d.Sections) == 0 {
		return nil
	}
	last := d.Sections[len(d.Sections)-1]
	if last.Navigation.Type == NavSubmit {
		return nil
	}
	for i := range d.Sections {
		for j := range d.Sections[i].Fields {
			choice := d.Sections[i].Fields[j].Choice
			if choice == nil {
				continue
			}
			for _, targets := range choice.Mapping {
				for _, target := range targets {
					if target == SubmitTarget {
						return nil
					}
				}
			}
		}
	}
	return []string{"final section does not terminate in submit"}
}
