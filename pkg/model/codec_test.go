package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDefinition() Definition {
	role := NewField(FieldSelect, "Role")
	role.Required = true
	role.Choice.Options = []string{"Student", "Faculty"}
	role.Choice.Mapping = map[string][]string{
		"Student": {"sec_details"},
		"Faculty": {SubmitTarget},
	}

	rollNo := NewField(FieldText, "Roll No")
	rollNo.Required = true
	rollNo.Input.Unique = true

	notice := NewField(FieldLabel, "")
	notice.Content.Text = "See [rules](https://example.com/rules)"
	notice.Content.Format = ContentMarkdown

	first := NewSection("Who are you")
	first.Fields = []Field{notice, role, rollNo}

	details := NewSection("Details")
	details.ID = "sec_details"
	details.Navigation = Navigation{Type: NavSubmit}
	details.Fields = []Field{NewField(FieldTextarea, "Why do you want to join?")}

	return Definition{Sections: []Section{first, details}}
}

func TestDocumentRoundTrip(t *testing.T) {
	def := sampleDefinition()

	doc, err := def.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	back, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if diff := cmp.Diff(def, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_OmitsIrrelevantAttributes(t *testing.T) {
	def := Definition{Sections: []Section{NewSection("Only")}}
	def.Sections[0].Fields = []Field{NewField(FieldText, "Name")}

	doc, err := def.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	sections := doc["sections"].([]any)
	fields := sections[0].(map[string]any)["fields"].([]any)
	field := fields[0].(map[string]any)

	for _, key := range []string{"choice", "rating", "content", "image", "link"} {
		if _, ok := field[key]; ok {
			t.Fatalf("text field document must not carry %q", key)
		}
	}
}

func TestFromDocument_LegacyFlatFields(t *testing.T) {
	doc := map[string]any{
		"fields": []any{
			map[string]any{"id": "f1", "type": "text", "label": "Name", "required": true},
			map[string]any{"type": "email", "label": "Email"},
		},
	}

	def, err := FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(def.Sections) != 1 {
		t.Fatalf("expected one implicit section, got %d", len(def.Sections))
	}
	section := def.Sections[0]
	if section.Navigation.Type != NavSubmit {
		t.Fatalf("implicit section must submit, got %s", section.Navigation.Type)
	}
	if len(section.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(section.Fields))
	}
	if section.Fields[0].ID != "f1" {
		t.Fatalf("existing ids must survive, got %q", section.Fields[0].ID)
	}
	if section.Fields[1].ID == "" {
		t.Fatalf("missing ids must be backfilled")
	}
}

func TestFromDocument_Invalid(t *testing.T) {
	if _, err := FromDocument(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
	if _, err := FromDocument(map[string]any{"title": "not a form"}); err == nil {
		t.Fatalf("expected error for unrecognised document shape")
	}
}

func TestParseYAML(t *testing.T) {
	payload := []byte(`
sections:
  - id: sec_1
    title: Basics
    navigation:
      type: submit
    fields:
      - id: f1
        type: select
        label: Track
        choice:
          options: [Workshops, Talks]
`)

	def, err := ParseYAML(payload)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(def.Sections) != 1 || len(def.Sections[0].Fields) != 1 {
		t.Fatalf("unexpected shape: %+v", def)
	}
	field := def.Sections[0].Fields[0]
	if field.Type != FieldSelect || field.Choice == nil || len(field.Choice.Options) != 2 {
		t.Fatalf("unexpected field: %+v", field)
	}
}

func TestWarnings(t *testing.T) {
	def := sampleDefinition()
	def.Sections[1].Navigation = Navigation{Type: NavNext}
	// A mapping still routes to submit, so no warning.
	if warnings := def.Warnings(); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	def.Sections[0].Fields[1].Choice.Mapping = nil
	if warnings := def.Warnings(); len(warnings) != 1 {
		t.Fatalf("expected terminal-section warning, got %v", warnings)
	}
}
