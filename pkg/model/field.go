package model

import (
	"strings"

	"github.com/google/uuid"
)

// FieldKind splits field types into the two behavioural categories: inputs
// collect an answer, content fields are decorative and never do.
type FieldKind string

const (
	KindInput   FieldKind = "input"
	KindContent FieldKind = "content"
)

// FieldType is the concrete variant tag for a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldURL      FieldType = "url"
	FieldRating   FieldType = "rating"

	FieldLabel FieldType = "label"
	FieldImage FieldType = "image"
	FieldLink  FieldType = "link"
)

// Kind reports whether the type collects an answer or is purely content.
func (t FieldType) Kind() FieldKind {
	switch t {
	case FieldLabel, FieldImage, FieldLink:
		return KindContent
	default:
		return KindInput
	}
}

// IsChoice reports whether the type carries an option list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldSelect, FieldRadio, FieldCheckbox:
		return true
	default:
		return false
	}
}

// SupportsUnique reports whether a uniqueness constraint is meaningful for
// the type. Only free-text identity-like inputs qualify.
func (t FieldType) SupportsUnique() bool {
	switch t {
	case FieldText, FieldEmail, FieldNumber, FieldPhone:
		return true
	default:
		return false
	}
}

// Known reports whether the type is one of the supported variants.
func (t FieldType) Known() bool {
	switch t {
	case FieldText, FieldTextarea, FieldEmail, FieldPhone, FieldNumber,
		FieldSelect, FieldRadio, FieldCheckbox, FieldFile, FieldDate,
		FieldTime, FieldURL, FieldRating, FieldLabel, FieldImage, FieldLink:
		return true
	default:
		return false
	}
}

// Condition is the visibility rule shared by fields and sections: the owner
// is shown only when the named source field currently holds Equals. A
// disabled condition always passes.
type Condition struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	FieldID string `json:"fieldId,omitempty" yaml:"fieldId,omitempty"`
	Equals  string `json:"equals,omitempty" yaml:"equals,omitempty"`
}

// InputAttrs carries attributes specific to answer-collecting variants that
// are not option-backed.
type InputAttrs struct {
	// Unique requires the submitted value to not repeat across prior
	// submissions to the same activity. Meaningful for text, email,
	// number, and phone fields only.
	Unique bool `json:"unique,omitempty" yaml:"unique,omitempty"`
	// Accept lists accepted MIME patterns for file fields ("*" for any).
	Accept string `json:"accept,omitempty" yaml:"accept,omitempty"`
	// Domain restricts email answers to a domain when set.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
	// Format is a validation hint for phone fields.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ChoiceAttrs carries the option list and per-option navigation mapping for
// select, radio, and checkbox fields.
type ChoiceAttrs struct {
	Options []string `json:"options" yaml:"options"`
	// Mapping routes each option to the section ids (or SubmitTarget) that
	// become reachable when the option is selected. Targets must appear
	// after the field's own section in definition order.
	Mapping map[string][]string `json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

// RatingAttrs configures rating fields.
type RatingAttrs struct {
	Max  int    `json:"max" yaml:"max"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// ContentFormat selects how label content is interpreted when rendered.
type ContentFormat string

const (
	ContentText     ContentFormat = "text"
	ContentMarkdown ContentFormat = "markdown"
	ContentHTML     ContentFormat = "html"
)

// TextStyle carries inert presentation hints consumed by the render
// resolver. Absent values fall back to resolver defaults.
type TextStyle struct {
	Size       string `json:"size,omitempty" yaml:"size,omitempty"`
	Weight     string `json:"weight,omitempty" yaml:"weight,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	Align      string `json:"align,omitempty" yaml:"align,omitempty"`
	Decoration string `json:"decoration,omitempty" yaml:"decoration,omitempty"`
}

// ContentAttrs carries the body of a label content field.
type ContentAttrs struct {
	Text   string        `json:"text" yaml:"text"`
	Format ContentFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Style  TextStyle     `json:"style,omitempty" yaml:"style,omitempty"`
}

// ImageAttrs carries the source and presentation hints of an image field.
type ImageAttrs struct {
	Source string `json:"source" yaml:"source"`
	Size   string `json:"size,omitempty" yaml:"size,omitempty"`
	Border string `json:"border,omitempty" yaml:"border,omitempty"`
	Shadow bool   `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	Href   string `json:"href,omitempty" yaml:"href,omitempty"`
}

// LinkAttrs carries the target and presentation hints of a link field.
type LinkAttrs struct {
	URL   string `json:"url" yaml:"url"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
	Size  string `json:"size,omitempty" yaml:"size,omitempty"`
	Width string `json:"width,omitempty" yaml:"width,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Field is one form element. The envelope holds attributes shared by every
// variant; exactly one variant payload is populated, matching Type, so a
// persisted field never carries attributes that are meaningless for it.
type Field struct {
	ID          string     `json:"id" yaml:"id"`
	Type        FieldType  `json:"type" yaml:"type"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string     `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Conditional *Condition `json:"conditional,omitempty" yaml:"conditional,omitempty"`

	Input   *InputAttrs   `json:"input,omitempty" yaml:"input,omitempty"`
	Choice  *ChoiceAttrs  `json:"choice,omitempty" yaml:"choice,omitempty"`
	Rating  *RatingAttrs  `json:"rating,omitempty" yaml:"rating,omitempty"`
	Content *ContentAttrs `json:"content,omitempty" yaml:"content,omitempty"`
	Image   *ImageAttrs   `json:"image,omitempty" yaml:"image,omitempty"`
	Link    *LinkAttrs    `json:"link,omitempty" yaml:"link,omitempty"`
}

// Construction defaults per field type.
const (
	DefaultFileAccept       = "*"
	DefaultRatingMax        = 5
	DefaultRatingIcon       = "star"
	DefaultLabelText        = "Add your text here"
	DefaultImagePlaceholder = "https://placehold.co/600x200"
	DefaultLinkText         = "Open link"
)

// DefaultOptions is the option list new choice fields start with.
func DefaultOptions() []string {
	return []string{"Option 1", "Option 2"}
}

// NewID returns a fresh opaque identifier for fields, sections, and
// submissions.
func NewID() string {
	return uuid.NewString()
}

// NewField constructs a field of the given type with a fresh id and the
// minimal valid attribute set for that type. Unknown types fall back to a
// plain text field so callers always receive a renderable element.
func NewField(t FieldType, label string) Field {
	if !t.Known() {
		t = FieldText
	}

	field := Field{
		ID:    NewID(),
		Type:  t,
		Label: label,
	}

	switch {
	case t.IsChoice():
		field.Choice = &ChoiceAttrs{Options: DefaultOptions()}
	case t == FieldRating:
		field.Rating = &RatingAttrs{Max: DefaultRatingMax, Icon: DefaultRatingIcon}
	case t == FieldFile:
		field.Input = &InputAttrs{Accept: DefaultFileAccept}
	case t == FieldLabel:
		field.Label = ""
		field.Content = &ContentAttrs{Text: DefaultLabelText, Format: ContentText}
	case t == FieldImage:
		field.Label = ""
		field.Image = &ImageAttrs{Source: DefaultImagePlaceholder}
	case t == FieldLink:
		field.Label = ""
		field.Link = &LinkAttrs{URL: "", Text: DefaultLinkText}
	default:
		field.Input = &InputAttrs{}
	}

	return field
}

// Kind reports whether the field collects an answer or is purely content.
func (f Field) Kind() FieldKind {
	return f.Type.Kind()
}

// IsUnique reports whether the field carries an effective uniqueness
// constraint. The flag is ignored for types that do not support it.
func (f Field) IsUnique() bool {
	return f.Type.SupportsUnique() && f.Input != nil && f.Input.Unique
}

// AnswerKey derives the key under which the field's answer is stored in a
// submission document. Labels win; unlabelled inputs fall back to the id.
func (f Field) AnswerKey() string {
	if key := strings.TrimSpace(f.Label); key != "" {
		return key
	}
	return f.ID
}

// Clone returns a deep copy so builder operations never alias the caller's
// payloads.
func (f Field) Clone() Field {
	out := f
	if f.Conditional != nil {
		cond := *f.Conditional
		out.Conditional = &cond
	}
	if f.Input != nil {
		attrs := *f.Input
		out.Input = &attrs
	}
	if f.Choice != nil {
		attrs := ChoiceAttrs{Options: append([]string(nil), f.Choice.Options...)}
		if f.Choice.Mapping != nil {
			attrs.Mapping = make(map[string][]string, len(f.Choice.Mapping))
			for option, targets := range f.Choice.Mapping {
				attrs.Mapping[option] = append([]string(nil), targets...)
			}
		}
		out.Choice = &attrs
	}
	if f.Rating != nil {
		attrs := *f.Rating
		out.Rating = &attrs
	}
	if f.Content != nil {
		attrs := *f.Content
		out.Content = &attrs
	}
	if f.Image != nil {
		attrs := *f.Image
		out.Image = &attrs
	}
	if f.Link != nil {
		attrs := *f.Link
		out.Link = &attrs
	}
	return out
}
