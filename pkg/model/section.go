package model

// NavigationType names a section's declared successor rule.
type NavigationType string

const (
	// NavNext continues with the section at the next index.
	NavNext NavigationType = "next"
	// NavSubmit terminates the flow at this section.
	NavSubmit NavigationType = "submit"
	// NavSection jumps to an explicit later section.
	NavSection NavigationType = "section"
)

// SubmitTarget is the sentinel used inside choice mappings to terminate the
// flow instead of naming a section.
const SubmitTarget = "__submit__"

// Navigation declares what follows a section when the registrant continues.
// TargetID is set only for NavSection and must name a section that appears
// after the owning section in definition order.
type Navigation struct {
	Type     NavigationType `json:"type" yaml:"type"`
	TargetID string         `json:"targetId,omitempty" yaml:"targetId,omitempty"`
}

// Section is an ordered container of fields with its own visibility rule
// and navigation rule. Field order is significant: it is render and tab
// order.
type Section struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title,omitempty" yaml:"title,omitempty"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	Fields         []Field    `json:"fields" yaml:"fields"`
	Conditional    *Condition `json:"conditional,omitempty" yaml:"conditional,omitempty"`
	Navigation     Navigation `json:"navigation" yaml:"navigation"`
	SkipValidation bool       `json:"skipValidation,omitempty" yaml:"skipValidation,omitempty"`
}

// NewSection constructs an empty section with a fresh id and the given
// title, defaulting to linear navigation.
func NewSection(title string) Section {
	return Section{
		ID:         NewID(),
		Title:      title,
		Fields:     []Field{},
		Navigation: Navigation{Type: NavNext},
	}
}

// FieldIndex returns the position of the field with the given id, or -1.
func (s Section) FieldIndex(fieldID string) int {
	for i := range s.Fields {
		if s.Fields[i].ID == fieldID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the section and its fields.
func (s Section) Clone() Section {
	out := s
	if s.Conditional != nil {
		cond := *s.Conditional
		out.Conditional = &cond
	}
	out.Fields = make([]Field, len(s.Fields))
	for i := range s.Fields {
		out.Fields[i] = s.Fields[i].Clone()
	}
	return out
}
