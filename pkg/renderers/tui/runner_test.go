package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/model"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	textAreas []string
	infos     []string

	inputPos  int
	selectPos int
	multiPos  int
	textPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestRunLinearFlow(t *testing.T) {
	name := model.NewField(model.FieldText, "Full Name")
	name.Required = true
	email := model.NewField(model.FieldEmail, "Email")

	sec := model.NewSection("Registration")
	sec.Fields = []model.Field{name, email}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	driver := &stubDriver{inputs: []string{"Ada Lovelace", "ada@club.edu"}}
	runner := New(WithPromptDriver(driver))

	answers, err := runner.Run(context.Background(), def)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]any{
		"Full Name": "Ada Lovelace",
		"Email":     "ada@club.edu",
	}
	if diff := cmp.Diff(want, answers); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infos) == 0 || driver.infos[0] != "== Registration ==" {
		t.Errorf("section title not announced, infos = %v", driver.infos)
	}
}

func TestRunConditionalReveal(t *testing.T) {
	role := model.NewField(model.FieldSelect, "Role")
	role.Choice.Options = []string{"Student", "Faculty"}

	roll := model.NewField(model.FieldText, "Roll No")
	roll.Conditional = &model.Condition{Enabled: true, FieldID: role.ID, Equals: "Student"}

	sec := model.NewSection("About You")
	sec.Fields = []model.Field{role, roll}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	t.Run("revealed", func(t *testing.T) {
		driver := &stubDriver{selectIdx: []int{0}, inputs: []string{"A100"}}
		answers, err := New(WithPromptDriver(driver)).Run(context.Background(), def)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if answers["Roll No"] != "A100" {
			t.Errorf("Roll No = %v, want A100", answers["Roll No"])
		}
	})

	t.Run("hidden", func(t *testing.T) {
		driver := &stubDriver{selectIdx: []int{1}}
		answers, err := New(WithPromptDriver(driver)).Run(context.Background(), def)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if _, ok := answers["Roll No"]; ok {
			t.Error("hidden field was prompted")
		}
	})
}

func TestRunMappingSkipsToSubmit(t *testing.T) {
	role := model.NewField(model.FieldSelect, "Role")
	role.Choice.Options = []string{"Student", "Guest"}

	sec2 := model.NewSection("Student Details")
	sec2.Navigation = model.Navigation{Type: model.NavSubmit}
	rollNo := model.NewField(model.FieldText, "Roll No")
	sec2.Fields = []model.Field{rollNo}

	role.Choice.Mapping = map[string][]string{
		"Student": {sec2.ID},
		"Guest":   {model.SubmitTarget},
	}

	sec1 := model.NewSection("About You")
	sec1.Fields = []model.Field{role}
	def := model.FromSections([]model.Section{sec1, sec2})

	driver := &stubDriver{selectIdx: []int{1}}
	answers, err := New(WithPromptDriver(driver)).Run(context.Background(), def)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, ok := answers["Roll No"]; ok {
		t.Error("flow continued past submit mapping")
	}
	if answers["Role"] != "Guest" {
		t.Errorf("Role = %v, want Guest", answers["Role"])
	}
}

func TestRunMultiSelectRequiredRetries(t *testing.T) {
	diet := model.NewField(model.FieldCheckbox, "Dietary Needs")
	diet.Required = true
	diet.Choice.Options = []string{"Vegetarian", "Vegan"}

	sec := model.NewSection("Catering")
	sec.Fields = []model.Field{diet}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	driver := &stubDriver{multiIdx: [][]int{{}, {0, 1}}}
	answers, err := New(WithPromptDriver(driver)).Run(context.Background(), def)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{"Vegetarian", "Vegan"}
	if diff := cmp.Diff(want, answers["Dietary Needs"]); diff != "" {
		t.Errorf("answer mismatch (-want +got):\n%s", diff)
	}
	if driver.multiPos != 2 {
		t.Errorf("multiselect prompted %d times, want 2", driver.multiPos)
	}
}

func TestRunFileField(t *testing.T) {
	idCard := model.NewField(model.FieldFile, "ID Card")
	idCard.Required = true

	sec := model.NewSection("Documents")
	sec.Fields = []model.Field{idCard}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	driver := &stubDriver{inputs: []string{"/tmp/id.png"}}
	read := func(path string) (*filestore.File, error) {
		if path != "/tmp/id.png" {
			return nil, errors.New("unexpected path")
		}
		return &filestore.File{Name: "id.png", ContentType: "image/png", Size: 2, Content: []byte("ok")}, nil
	}

	answers, err := New(WithPromptDriver(driver), WithFileReader(read)).Run(context.Background(), def)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	blob, ok := answers["ID Card"].(*filestore.File)
	if !ok || blob.Name != "id.png" {
		t.Fatalf("ID Card answer = %#v, want uploaded blob", answers["ID Card"])
	}
}

func TestRunContentFieldsPrinted(t *testing.T) {
	label := model.NewField(model.FieldLabel, "")
	label.Content.Text = "Welcome to the club fair."

	sec := model.NewSection("Intro")
	sec.Fields = []model.Field{label}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	driver := &stubDriver{}
	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), def); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, msg := range driver.infos {
		if msg == "Welcome to the club fair." {
			found = true
		}
	}
	if !found {
		t.Errorf("content text not printed, infos = %v", driver.infos)
	}
}

func TestRunEmptyDefinition(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{})).Run(context.Background(), model.Definition{}); !errors.Is(err, ErrNoSections) {
		t.Fatalf("Run() error = %v, want ErrNoSections", err)
	}
}
