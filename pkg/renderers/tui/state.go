package tui

import (
	"github.com/clubworks/go-formflow/pkg/model"
	"github.com/clubworks/go-formflow/pkg/visibility"
)

// session tracks the registrant's answers during a run. Answers are kept
// under two keys: the field id, which visibility rules reference, and the
// answer key, which the submission pipeline consumes.
type session struct {
	byID  visibility.Answers
	byKey map[string]any
}

func newSession() *session {
	return &session{
		byID:  make(visibility.Answers),
		byKey: make(map[string]any),
	}
}

func (s *session) set(field model.Field, value any) {
	s.byID[field.ID] = value
	s.byKey[field.AnswerKey()] = value
}

func (s *session) visible() visibility.Answers {
	return s.byID
}

// answers returns the collected answer map keyed for submission.
func (s *session) answers() map[string]any {
	return s.byKey
}
