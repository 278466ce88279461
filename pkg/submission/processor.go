package submission

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/visibility"
)

const defaultFolder = "registrations"

// Option configures a Processor.
type Option func(*Processor)

// WithFolder sets the storage folder uploads are placed under.
func WithFolder(folder string) Option {
	return func(p *Processor) {
		p.folder = folder
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// Processor runs the submission pipeline. Safe for concurrent use.
type Processor struct {
	storage filestore.Storage
	prior   PriorSubmissions
	folder  string
	now     func() time.Time
}

func NewProcessor(storage filestore.Storage, prior PriorSubmissions, opts ...Option) *Processor {
	p := &Processor{
		storage: storage,
		prior:   prior,
		folder:  defaultFolder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process validates the raw answers against the definition and assembles
// the final submission. Answer values are strings, string slices for
// multi-select, and *filestore.File for file fields, keyed by each
// field's answer key.
//
// All in-memory checks (completeness, payment, uniqueness) are evaluated
// and batched before any upload is issued, so a rejected submission never
// incurs storage traffic. Uploads then run concurrently and abort on the
// first failure; files already stored at that point are deleted on a
// best-effort basis.
func (p *Processor) Process(ctx context.Context, activityID string, def model.Definition, answers map[string]any, payment Payment, cfg PaymentConfig) (Submission, error) {
	if missing := missingRequired(def, answers); len(missing) > 0 {
		return Submission{}, &ValidationError{Missing: missing}
	}

	unpaid := cfg.IsPaid && !payment.Waiver
	if unpaid {
		perr := &PaymentRequiredError{
			MissingProof:     payment.Proof == nil || len(payment.Proof.Content) == 0,
			MissingReference: strings.TrimSpace(payment.Reference) == "",
		}
		if perr.MissingProof || perr.MissingReference {
			return Submission{}, perr
		}
	}

	if err := p.checkUniqueness(ctx, activityID, def, answers); err != nil {
		return Submission{}, err
	}

	records, err := p.uploadFiles(ctx, answers, payment, unpaid)
	if err != nil {
		return Submission{}, err
	}

	final := sanitize(answers, records)
	if unpaid {
		final[AnswerKeyTransactionID] = payment.Reference
	}

	status := StatusConfirmed
	if unpaid {
		status = StatusPendingPayment
	}
	return Submission{
		ActivityID:  activityID,
		SubmittedAt: p.now(),
		Status:      status,
		Answers:     final,
	}, nil
}

// conditionAnswers rekeys the submission's label-keyed answers by field
// id, which is what visibility rules reference.
func conditionAnswers(def model.Definition, answers map[string]any) visibility.Answers {
	vis := make(visibility.Answers, len(answers))
	for _, f := range def.Fields() {
		if value, ok := answers[f.AnswerKey()]; ok {
			vis[f.ID] = value
		}
	}
	return vis
}

// missingRequired reports the answer keys of every visible required input
// field without a type-appropriate non-empty answer. Sections flagged
// skipValidation or currently hidden are not checked.
func missingRequired(def model.Definition, answers map[string]any) []string {
	vis := conditionAnswers(def, answers)
	var missing []string
	for _, sec := range def.Sections {
		if sec.SkipValidation || !visibility.SectionVisible(sec, vis) {
			continue
		}
		for _, f := range sec.Fields {
			if f.Kind() != model.KindInput || !f.Required {
				continue
			}
			if !visibility.FieldVisible(f, vis) {
				continue
			}
			if !answered(f, answers[f.AnswerKey()]) {
				missing = append(missing, f.AnswerKey())
			}
		}
	}
	return missing
}

func answered(f model.Field, value any) bool {
	switch f.Type {
	case model.FieldCheckbox:
		// A single selection may arrive as a bare string rather than a
		// one-element list.
		switch v := value.(type) {
		case []string:
			return len(v) > 0
		case []any:
			return len(v) > 0
		case string:
			return strings.TrimSpace(v) != ""
		}
		return false
	case model.FieldFile:
		blob, ok := value.(*filestore.File)
		return ok && blob != nil
	default:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	}
}

func (p *Processor) checkUniqueness(ctx context.Context, activityID string, def model.Definition, answers map[string]any) error {
	var collisions []string
	for _, f := range def.Fields() {
		if !f.IsUnique() {
			continue
		}
		key := f.AnswerKey()
		value, ok := answers[key].(string)
		if !ok || value == "" {
			continue
		}
		taken, err := p.prior.HasAnswer(ctx, activityID, key, value)
		if err != nil {
			return fmt.Errorf("submission: uniqueness check %s: %w", key, err)
		}
		if taken {
			collisions = append(collisions, key)
		}
	}
	if len(collisions) > 0 {
		return &UniquenessError{Fields: collisions}
	}
	return nil
}

type uploadJob struct {
	key  string
	file *filestore.File
}

// uploadFiles stores every blob-valued answer (plus the payment proof on
// unwaived paid submissions) concurrently and returns the stored-file
// records keyed by answer key. On the first failure it deletes whatever
// was already uploaded and returns an UploadError.
func (p *Processor) uploadFiles(ctx context.Context, answers map[string]any, payment Payment, unpaid bool) (map[string]map[string]any, error) {
	var jobs []uploadJob
	for key, value := range answers {
		if blob, ok := value.(*filestore.File); ok && blob != nil {
			jobs = append(jobs, uploadJob{key: key, file: blob})
		}
	}
	if unpaid {
		jobs = append(jobs, uploadJob{key: AnswerKeyPaymentProof, file: payment.Proof})
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		records  = make(map[string]map[string]any, len(jobs))
		uploaded []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			stored, err := p.storage.Upload(gctx, *job.file, p.folder)
			if err != nil {
				return &UploadError{Field: job.key, Err: err}
			}
			mu.Lock()
			uploaded = append(uploaded, stored.Ref)
			records[job.key] = fileRecord(*job.file, stored)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.discard(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}
	return records, nil
}

// discard removes orphaned uploads after an aborted submission. Failures
// are ignored; an orphaned blob is preferable to masking the original
// error.
func (p *Processor) discard(ctx context.Context, refs []string) {
	for _, ref := range refs {
		_ = p.storage.Delete(ctx, ref)
	}
}

func fileRecord(file filestore.File, stored filestore.StoredFile) map[string]any {
	return map[string]any{
		"fileName":   file.Name,
		"fileUrl":    stored.URL,
		"fileSize":   file.Size,
		"fileType":   file.ContentType,
		"storageRef": stored.Ref,
	}
}

// sanitize builds the persistable answer map: blob answers are replaced
// by their stored-file records and any value the document store cannot
// represent is dropped.
func sanitize(answers map[string]any, records map[string]map[string]any) map[string]any {
	out := make(map[string]any, len(answers))
	for key, value := range answers {
		if record, ok := records[key]; ok {
			out[key] = record
			continue
		}
		if clean, ok := sanitizeValue(value); ok {
			out[key] = clean
		}
	}
	for key, record := range records {
		if _, ok := out[key]; !ok {
			out[key] = record
		}
	}
	return out
}

func sanitizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case string, bool, int, int64, float64:
		return v, true
	case []string:
		return v, true
	case []any:
		clean := make([]any, 0, len(v))
		for _, item := range v {
			if c, ok := sanitizeValue(item); ok {
				clean = append(clean, c)
			}
		}
		return clean, true
	case map[string]any:
		clean := make(map[string]any, len(v))
		for key, item := range v {
			if c, ok := sanitizeValue(item); ok {
				clean[key] = c
			}
		}
		return clean, true
	default:
		return nil, false
	}
}
