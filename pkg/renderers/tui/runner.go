// Package tui runs a form definition as an interactive terminal session:
// sections are walked in navigation order, conditional fields appear as
// soon as their source answer matches, and the collected answers come back
// keyed the way the submission pipeline expects them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/visibility"
)

// Runner prompts through a definition and collects answers.
type Runner struct {
	driver   PromptDriver
	readFile FileReader
}

// New constructs a runner with defaults (survey prompts, local file
// reads).
func New(options ...Option) *Runner {
	r := &Runner{
		driver:   newSurveyDriver(),
		readFile: readLocalFile,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run walks the definition from its first section until a submit rule or
// mapping terminates the flow, prompting for every visible input field.
// Visibility is re-evaluated after each answer so conditional reveals are
// immediate.
func (r *Runner) Run(ctx context.Context, def model.Definition) (map[string]any, error) {
	if len(def.Sections) == 0 {
		return nil, ErrNoSections
	}

	state := newSession()
	current := def.Sections[0].ID

	// Navigation only moves forward, so the walk visits each section at
	// most once.
	for range def.Sections {
		section, ok := def.SectionByID(current)
		if !ok {
			return nil, fmt.Errorf("tui: section %q not found", current)
		}

		if err := r.announceSection(ctx, section); err != nil {
			return nil, err
		}
		for i := range section.Fields {
			field := section.Fields[i]
			if !visibility.FieldVisible(field, state.visible()) {
				continue
			}
			if err := r.promptField(ctx, field, state); err != nil {
				return nil, err
			}
		}

		next, err := visibility.Resolve(def, current, state.visible())
		if err != nil {
			return nil, err
		}
		if next.Submit {
			return state.answers(), nil
		}
		current = next.SectionID
	}

	return nil, fmt.Errorf("tui: flow did not terminate")
}

func (r *Runner) announceSection(ctx context.Context, section model.Section) error {
	if section.Title != "" {
		if err := r.driver.Info(ctx, "== "+section.Title+" =="); err != nil {
			return err
		}
	}
	if section.Description != "" {
		if err := r.driver.Info(ctx, section.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, field model.Field, state *session) error {
	if field.Kind() == model.KindContent {
		return r.showContent(ctx, field)
	}

	switch field.Type {
	case model.FieldSelect, model.FieldRadio:
		return r.promptChoice(ctx, field, state)
	case model.FieldCheckbox:
		return r.promptMultiChoice(ctx, field, state)
	case model.FieldTextarea:
		return r.promptTextArea(ctx, field, state)
	case model.FieldFile:
		return r.promptFile(ctx, field, state)
	case model.FieldRating:
		return r.promptRating(ctx, field, state)
	default:
		return r.promptInput(ctx, field, state)
	}
}

// showContent prints display-only fields instead of prompting.
func (r *Runner) showContent(ctx context.Context, field model.Field) error {
	switch {
	case field.Content != nil:
		return r.driver.Info(ctx, field.Content.Text)
	case field.Image != nil:
		return r.driver.Info(ctx, "[image] "+field.Image.Source)
	case field.Link != nil:
		text := field.Link.Text
		if text == "" {
			text = field.Link.URL
		}
		return r.driver.Info(ctx, text+" <"+field.Link.URL+">")
	default:
		return nil
	}
}

func (r *Runner) promptInput(ctx context.Context, field model.Field, state *session) error {
	cfg := InputConfig{
		Message:     promptLabel(field),
		Help:        field.HelpText,
		Placeholder: field.Placeholder,
	}
	if field.Required {
		cfg.Validator = func(value string) error {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%s is required", field.AnswerKey())
			}
			return nil
		}
	}
	value, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	if value != "" || field.Required {
		state.set(field, value)
	}
	return nil
}

func (r *Runner) promptTextArea(ctx context.Context, field model.Field, state *session) error {
	value, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: promptLabel(field),
		Help:    field.HelpText,
	})
	if err != nil {
		return err
	}
	if value != "" || field.Required {
		state.set(field, value)
	}
	return nil
}

func (r *Runner) promptChoice(ctx context.Context, field model.Field, state *session) error {
	options := field.Choice.Options
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: promptLabel(field),
		Options: options,
		Help:    field.HelpText,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: select returned out-of-range index %d", idx)
	}
	state.set(field, options[idx])
	return nil
}

func (r *Runner) promptMultiChoice(ctx context.Context, field model.Field, state *session) error {
	options := field.Choice.Options
	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message: promptLabel(field),
			Options: options,
			Help:    field.HelpText,
		})
		if err != nil {
			return err
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				selected = append(selected, options[idx])
			}
		}
		if len(selected) == 0 && field.Required {
			if err := r.driver.Info(ctx, "Select at least one option."); err != nil {
				return err
			}
			continue
		}
		if len(selected) > 0 {
			state.set(field, selected)
		}
		return nil
	}
}

func (r *Runner) promptFile(ctx context.Context, field model.Field, state *session) error {
	for {
		path, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(field) + " (path)",
			Help:    field.HelpText,
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(path) == "" {
			if !field.Required {
				return nil
			}
			if err := r.driver.Info(ctx, "A file is required."); err != nil {
				return err
			}
			continue
		}
		blob, err := r.readFile(strings.TrimSpace(path))
		if err != nil {
			if infoErr := r.driver.Info(ctx, "Could not read file: "+err.Error()); infoErr != nil {
				return infoErr
			}
			continue
		}
		state.set(field, blob)
		return nil
	}
}

func (r *Runner) promptRating(ctx context.Context, field model.Field, state *session) error {
	max := model.DefaultRatingMax
	if field.Rating != nil && field.Rating.Max > 0 {
		max = field.Rating.Max
	}
	options := make([]string, max)
	for i := range options {
		options[i] = strconv.Itoa(i + 1)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: promptLabel(field),
		Options: options,
		Help:    field.HelpText,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return errors.New("tui: rating select returned out-of-range index")
	}
	state.set(field, options[idx])
	return nil
}
