// Package submission validates, normalizes, and assembles registrant
// answers into a persistable submission record. The pipeline is strictly
// ordered: completeness, payment gate, uniqueness, file upload,
// sanitization, assembly. No external side effect is issued before every
// in-memory check has passed.
package submission

import (
	"context"
	"time"

	"github.com/clubworks/go-formflow/pkg/docstore"
	"github.com/clubworks/go-formflow/pkg/filestore"
)

// Status marks whether a submission is finalized or awaiting payment
// verification.
type Status string

const (
	StatusConfirmed      Status = "confirmed"
	StatusPendingPayment Status = "pending_payment"
)

// Reserved answer keys the processor injects for paid activities.
const (
	AnswerKeyPaymentProof  = "paymentProof"
	AnswerKeyTransactionID = "transactionId"
)

// PaymentConfig is the owning activity's payment policy.
type PaymentConfig struct {
	IsPaid bool
	Fee    float64
}

// Payment carries what the registrant supplied for a paid activity.
// Waiver marks registrants exempted from paying (the waiver itself is
// granted outside this package).
type Payment struct {
	Waiver    bool
	Proof     *filestore.File
	Reference string
}

// Submission is the finalized, normalized record produced by the
// processor. Answers hold only document-store-representable values; file
// answers are stored-file reference records.
type Submission struct {
	ActivityID  string
	SubmittedAt time.Time
	Status      Status
	Answers     map[string]any
}

// Document flattens the submission for persistence.
func (s Submission) Document() docstore.Document {
	return docstore.Document{
		"activityId":  s.ActivityID,
		"submittedAt": s.SubmittedAt.UTC().Format(time.RFC3339),
		"status":      string(s.Status),
		"answers":     s.Answers,
	}
}

// PriorSubmissions answers uniqueness queries against previously persisted
// submissions for an activity.
type PriorSubmissions interface {
	HasAnswer(ctx context.Context, activityID, answerKey string, value any) (bool, error)
}
