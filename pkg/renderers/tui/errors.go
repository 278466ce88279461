package tui

import "errors"

var (
	// ErrAborted signals the registrant aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSections is returned when the definition has nothing to run.
	ErrNoSections = errors.New("tui: definition has no sections")
)
