package submission

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/model"
)

// fakePrior answers uniqueness queries from a fixed set of taken values.
type fakePrior struct {
	taken   map[string]string
	queries int
	err     error
}

func (p *fakePrior) HasAnswer(ctx context.Context, activityID, answerKey string, value any) (bool, error) {
	p.queries++
	if p.err != nil {
		return false, p.err
	}
	return p.taken[answerKey] == fmt.Sprint(value), nil
}

// failingStorage wraps a memory store and rejects uploads of one file.
type failingStorage struct {
	*filestore.Memory
	failName string
}

func (s *failingStorage) Upload(ctx context.Context, file filestore.File, folder string) (filestore.StoredFile, error) {
	if file.Name == s.failName {
		return filestore.StoredFile{}, errors.New("storage unavailable")
	}
	return s.Memory.Upload(ctx, file, folder)
}

func registrationDefinition() model.Definition {
	name := model.NewField(model.FieldText, "Full Name")
	name.Required = true

	email := model.NewField(model.FieldEmail, "Email")
	email.Required = true
	email.Input.Unique = true

	roll := model.NewField(model.FieldText, "Roll No")
	roll.Input.Unique = true

	idCard := model.NewField(model.FieldFile, "ID Card")
	idCard.Required = true

	diet := model.NewField(model.FieldCheckbox, "Dietary Needs")
	diet.Choice.Options = []string{"Vegetarian", "Vegan", "None"}

	other := model.NewField(model.FieldTextarea, "Other Needs")
	other.Required = true
	other.Conditional = &model.Condition{Enabled: true, FieldID: diet.ID, Equals: "None"}

	sec := model.NewSection("Registration")
	sec.Fields = []model.Field{name, email, roll, idCard, diet, other}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}

	return model.FromSections([]model.Section{sec})
}

func completeAnswers() map[string]any {
	return map[string]any{
		"Full Name":     "Ada Lovelace",
		"Email":         "ada@club.edu",
		"Roll No":       "A100",
		"ID Card":       &filestore.File{Name: "id.png", ContentType: "image/png", Size: 4, Content: []byte("card")},
		"Dietary Needs": []string{"Vegetarian"},
	}
}

func newTestProcessor(prior PriorSubmissions) (*Processor, *filestore.Memory) {
	store := filestore.NewMemory()
	p := NewProcessor(store, prior, WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}))
	return p, store
}

func TestProcessHappyPath(t *testing.T) {
	p, store := newTestProcessor(&fakePrior{})

	sub, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), Payment{}, PaymentConfig{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if sub.Status != StatusConfirmed {
		t.Errorf("Status = %q, want %q", sub.Status, StatusConfirmed)
	}
	if sub.ActivityID != "act_1" {
		t.Errorf("ActivityID = %q, want act_1", sub.ActivityID)
	}
	if store.Len() != 1 {
		t.Errorf("stored files = %d, want 1", store.Len())
	}

	record, ok := sub.Answers["ID Card"].(map[string]any)
	if !ok {
		t.Fatalf("ID Card answer = %T, want stored-file record", sub.Answers["ID Card"])
	}
	if record["fileName"] != "id.png" || record["fileType"] != "image/png" {
		t.Errorf("file record = %v", record)
	}
	for _, key := range []string{"fileUrl", "storageRef"} {
		if s, _ := record[key].(string); s == "" {
			t.Errorf("file record missing %s", key)
		}
	}

	doc := sub.Document()
	if doc["status"] != "confirmed" || doc["submittedAt"] != "2026-03-14T12:00:00Z" {
		t.Errorf("Document() = %v", doc)
	}
}

func TestProcessMissingRequiredBatched(t *testing.T) {
	p, store := newTestProcessor(&fakePrior{})

	answers := completeAnswers()
	delete(answers, "Full Name")
	answers["ID Card"] = (*filestore.File)(nil)

	_, err := p.Process(context.Background(), "act_1", registrationDefinition(), answers, Payment{}, PaymentConfig{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Process() error = %v, want ValidationError", err)
	}
	want := []string{"Full Name", "ID Card"}
	if diff := cmp.Diff(want, verr.Missing, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Errorf("stored files = %d, want 0 after rejection", store.Len())
	}
}

func TestProcessHiddenConditionalNotRequired(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	// "Other Needs" is required only when "None" is selected; it is hidden
	// here so its absence must not fail the completeness check.
	answers := completeAnswers()
	answers["Dietary Needs"] = []string{"Vegan"}

	if _, err := p.Process(context.Background(), "act_1", registrationDefinition(), answers, Payment{}, PaymentConfig{}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestProcessVisibleConditionalRequired(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	answers := completeAnswers()
	answers["Dietary Needs"] = []string{"None"}

	_, err := p.Process(context.Background(), "act_1", registrationDefinition(), answers, Payment{}, PaymentConfig{})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Process() error = %v, want ValidationError", err)
	}
	if diff := cmp.Diff([]string{"Other Needs"}, verr.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessContentFieldNeverRequired(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	// A stored label can carry a stray required flag; display-only fields
	// collect no answer, so completeness must ignore it.
	label := model.NewField(model.FieldLabel, "")
	label.Required = true
	label.Content.Text = "Bring your student ID to the venue."

	sec := model.NewSection("Instructions")
	sec.Fields = []model.Field{label}
	sec.Navigation = model.Navigation{Type: model.NavSubmit}
	def := model.FromSections([]model.Section{sec})

	sub, err := p.Process(context.Background(), "act_1", def, map[string]any{}, Payment{}, PaymentConfig{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub.Status != StatusConfirmed {
		t.Errorf("Status = %q, want %q", sub.Status, StatusConfirmed)
	}
}

func TestProcessSkipValidationSection(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	def := registrationDefinition()
	def.Sections[0].SkipValidation = true

	if _, err := p.Process(context.Background(), "act_1", def, map[string]any{}, Payment{}, PaymentConfig{}); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestProcessPaymentGate(t *testing.T) {
	tests := []struct {
		name      string
		payment   Payment
		wantProof bool
		wantRef   bool
	}{
		{
			name:      "nothing supplied",
			payment:   Payment{},
			wantProof: true,
			wantRef:   true,
		},
		{
			name:      "reference only",
			payment:   Payment{Reference: "TXN-42"},
			wantProof: true,
		},
		{
			name:    "proof only",
			payment: Payment{Proof: &filestore.File{Name: "proof.png", Content: []byte("x")}},
			wantRef: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProcessor(&fakePrior{})

			_, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), tt.payment, PaymentConfig{IsPaid: true, Fee: 100})

			var perr *PaymentRequiredError
			if !errors.As(err, &perr) {
				t.Fatalf("Process() error = %v, want PaymentRequiredError", err)
			}
			if perr.MissingProof != tt.wantProof || perr.MissingReference != tt.wantRef {
				t.Errorf("PaymentRequiredError = %+v, want proof=%v ref=%v", perr, tt.wantProof, tt.wantRef)
			}
		})
	}
}

func TestProcessPaidSubmission(t *testing.T) {
	p, store := newTestProcessor(&fakePrior{})

	payment := Payment{
		Proof:     &filestore.File{Name: "receipt.png", ContentType: "image/png", Size: 2, Content: []byte("ok")},
		Reference: "TXN-42",
	}

	sub, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), payment, PaymentConfig{IsPaid: true, Fee: 100})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if sub.Status != StatusPendingPayment {
		t.Errorf("Status = %q, want %q", sub.Status, StatusPendingPayment)
	}
	if sub.Answers[AnswerKeyTransactionID] != "TXN-42" {
		t.Errorf("transaction reference = %v, want TXN-42", sub.Answers[AnswerKeyTransactionID])
	}
	if _, ok := sub.Answers[AnswerKeyPaymentProof].(map[string]any); !ok {
		t.Errorf("payment proof answer = %T, want stored-file record", sub.Answers[AnswerKeyPaymentProof])
	}
	// The registrant's ID card plus the payment proof.
	if store.Len() != 2 {
		t.Errorf("stored files = %d, want 2", store.Len())
	}
}

func TestProcessPaymentWaiver(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	sub, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), Payment{Waiver: true}, PaymentConfig{IsPaid: true, Fee: 100})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if sub.Status != StatusConfirmed {
		t.Errorf("Status = %q, want %q", sub.Status, StatusConfirmed)
	}
}

func TestProcessUniquenessBatched(t *testing.T) {
	prior := &fakePrior{taken: map[string]string{"Email": "ada@club.edu", "Roll No": "A100"}}
	p, store := newTestProcessor(prior)

	_, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), Payment{}, PaymentConfig{})

	var uerr *UniquenessError
	if !errors.As(err, &uerr) {
		t.Fatalf("Process() error = %v, want UniquenessError", err)
	}
	want := []string{"Email", "Roll No"}
	if diff := cmp.Diff(want, uerr.Fields, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Errorf("stored files = %d, want 0 when uniqueness fails before upload", store.Len())
	}
}

func TestProcessUniquenessQueryError(t *testing.T) {
	prior := &fakePrior{err: errors.New("store offline")}
	p, store := newTestProcessor(prior)

	_, err := p.Process(context.Background(), "act_1", registrationDefinition(), completeAnswers(), Payment{}, PaymentConfig{})
	if err == nil || !errors.Is(err, prior.err) {
		t.Fatalf("Process() error = %v, want wrapped store error", err)
	}
	if store.Len() != 0 {
		t.Errorf("stored files = %d, want 0", store.Len())
	}
}

func TestProcessUploadFailureAbortsAndCleansUp(t *testing.T) {
	storage := &failingStorage{Memory: filestore.NewMemory(), failName: "transcript.pdf"}
	p := NewProcessor(storage, &fakePrior{})

	answers := completeAnswers()
	answers["Transcript"] = &filestore.File{Name: "transcript.pdf", ContentType: "application/pdf", Size: 1, Content: []byte("x")}
	answers["Photo"] = &filestore.File{Name: "photo.jpg", ContentType: "image/jpeg", Size: 1, Content: []byte("x")}

	_, err := p.Process(context.Background(), "act_1", registrationDefinition(), answers, Payment{}, PaymentConfig{})

	var uerr *UploadError
	if !errors.As(err, &uerr) {
		t.Fatalf("Process() error = %v, want UploadError", err)
	}
	if uerr.Field != "Transcript" {
		t.Errorf("UploadError.Field = %q, want Transcript", uerr.Field)
	}
	if storage.Memory.Len() != 0 {
		t.Errorf("stored files after abort = %d, want 0 (orphans cleaned up)", storage.Memory.Len())
	}
}

func TestProcessSanitizesBlobRemnants(t *testing.T) {
	p, _ := newTestProcessor(&fakePrior{})

	answers := completeAnswers()
	answers["Stray"] = make(chan int)

	sub, err := p.Process(context.Background(), "act_1", registrationDefinition(), answers, Payment{}, PaymentConfig{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, ok := sub.Answers["Stray"]; ok {
		t.Error("unrepresentable answer survived sanitization")
	}
}
