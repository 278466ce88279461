package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document converts the definition into the schemaless tree the document
// store persists. Attributes irrelevant to a field's type are absent rather
// than empty, so stores that reject undefined values never see them.
func (d Definition) Document() (map[string]any, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("model: encode definition: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("model: decode definition document: %w", err)
	}
	return doc, nil
}

// FromDocument reconstructs a definition from a stored document tree. Both
// the structured section shape and the historical flat field list are
// accepted; the latter is wrapped into one implicit section.
func FromDocument(doc map[string]any) (Definition, error) {
	if doc == nil {
		return Definition{}, fmt.Errorf("model: nil definition document")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return Definition{}, fmt.Errorf("model: encode definition document: %w", err)
	}

	if _, ok := doc["sections"]; ok {
		var def Definition
		if err := json.Unmarshal(payload, &def); err != nil {
			return Definition{}, fmt.Errorf("model: parse definition: %w", err)
		}
		def.ensureIDs()
		return def, nil
	}

	if _, ok := doc["fields"]; ok {
		var legacy struct {
			Fields []Field `json:"fields"`
		}
		if err := json.Unmarshal(payload, &legacy); err != nil {
			return Definition{}, fmt.Errorf("model: parse legacy definition: %w", err)
		}
		def := FromLegacyFields(legacy.Fields)
		def.ensureIDs()
		return def, nil
	}

	return Definition{}, fmt.Errorf("model: document has neither sections nor fields")
}

// ParseJSON decodes a definition from JSON bytes (authoring files, HTTP
// payloads).
func ParseJSON(data []byte) (Definition, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("model: parse json definition: %w", err)
	}
	return FromDocument(doc)
}

// ParseYAML decodes a definition from a YAML authoring file.
func ParseYAML(data []byte) (Definition, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("model: parse yaml definition: %w", err)
	}
	return FromDocument(normalizeYAML(doc).(map[string]any))
}

// normalizeYAML rewrites yaml.v3's map[any]any trees into the
// map[string]any shape the JSON codec expects.
func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprint(key)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return value
	}
}

// ensureIDs backfills identifiers missing from hand-written or legacy
// documents so every element is addressable by the builder.
func (d *Definition) ensureIDs() {
	for i := range d.Sections {
		if d.Sections[i].ID == "" {
			d.Sections[i].ID = NewID()
		}
		if d.Sections[i].Navigation.Type == "" {
			d.Sections[i].Navigation.Type = NavNext
			if i == len(d.Sections)-1 {
				d.Sections[i].Navigation.Type = NavSubmit
			}
		}
		for j := range d.Sections[i].Fields {
			if d.Sections[i].Fields[j].ID == "" {
				d.Sections[i].Fields[j].ID = NewID()
			}
		}
	}
}
