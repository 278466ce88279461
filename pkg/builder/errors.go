package builder

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when the configured identity provider does
// not authorise the current actor for authoring operations.
var ErrNotAuthorized = errors.New("builder: actor is not authorized to edit forms")

// ConfigurationError reports a structural invariant violation in an edit,
// such as a navigation rule pointing at an earlier section. The edit is
// rejected, never silently corrected.
type ConfigurationError struct {
	Op     string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("builder: %s: %s", e.Op, e.Detail)
}

// GuardrailError reports an edit that would violate a hard minimum, such as
// deleting the only remaining section. Callers must surface it to the user
// as a blocking message.
type GuardrailError struct {
	Op     string
	Detail string
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("builder: %s: %s", e.Op, e.Detail)
}

func configErr(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

func guardrailErr(op, format string, args ...any) error {
	return &GuardrailError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
