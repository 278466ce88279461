package submission

import (
	"fmt"
	"strings"
)

// ValidationError reports every required field that is missing an answer.
// It is batched so the caller can highlight all offending fields at once.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission: missing required answers: %s", strings.Join(e.Missing, ", "))
}

// PaymentRequiredError reports what is missing on a paid, unwaived
// submission. At least one of the two flags is set.
type PaymentRequiredError struct {
	MissingProof     bool
	MissingReference bool
}

func (e *PaymentRequiredError) Error() string {
	var parts []string
	if e.MissingProof {
		parts = append(parts, "payment proof")
	}
	if e.MissingReference {
		parts = append(parts, "transaction reference")
	}
	return fmt.Sprintf("submission: payment required: missing %s", strings.Join(parts, " and "))
}

// UniquenessError reports every unique-flagged field whose answer collides
// with a prior submission for the same activity.
type UniquenessError struct {
	Fields []string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("submission: duplicate answers for: %s", strings.Join(e.Fields, ", "))
}

// UploadError reports the first file that failed to reach storage. The
// submission is aborted and must be retried as a whole.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("submission: upload %s: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
