package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the position of a practice session in its lifecycle.
type Status string

const (
	StatusIdle               Status = "idle"
	StatusGeneratingQuestion Status = "generating_question"
	StatusQuestionReady      Status = "question_ready"
	StatusEvaluating         Status = "evaluating"
	StatusFeedbackReady      Status = "feedback_ready"
	StatusError              Status = "error"
)

// Busy reports whether a request is in flight in this status.
func (s Status) Busy() bool {
	return s == StatusGeneratingQuestion || s == StatusEvaluating
}

// Session is the snapshot of a single practice session.
// It is a value type: the state machine hands out copies, never pointers to its own state.
type Session struct {
	// ID identifies the session in logs and events.
	ID string `json:"id"`

	// JobRoleTitle is the role context sent with every AI request.
	JobRoleTitle string `json:"job_role"`

	// CurrentQuestion is empty when no question has been generated.
	CurrentQuestion string `json:"question,omitempty"`

	// DraftAnswer is the user-entered text. Empty means "no answer".
	DraftAnswer string `json:"draft_answer,omitempty"`

	// Feedback is only set after a successful evaluation.
	Feedback string `json:"feedback,omitempty"`

	Status    Status `json:"status"`
	LastError string `json:"last_error,omitempty"`
}

// NewSession creates an idle session for the given role title.
func NewSession(id, jobRoleTitle string) Session {
	if strings.TrimSpace(jobRoleTitle) == "" {
		jobRoleTitle = DefaultJobRoleTitle
	}
	return Session{
		ID:           id,
		JobRoleTitle: jobRoleTitle,
		Status:       StatusIdle,
	}
}

// HasQuestion reports whether a question is currently held.
func (s Session) HasQuestion() bool {
	return s.CurrentQuestion != ""
}

// Validate checks the session invariants.
func (s Session) Validate() error {
	var errs []error
	if s.Feedback != "" && s.Status != StatusFeedbackReady {
		errs = append(errs, fmt.Errorf("feedback present in status %q", s.Status))
	}
	switch s.Status {
	case StatusQuestionReady, StatusEvaluating, StatusFeedbackReady:
		if !s.HasQuestion() {
			errs = append(errs, fmt.Errorf("no question in status %q", s.Status))
		}
	case StatusIdle:
		if s.HasQuestion() || s.DraftAnswer != "" || s.LastError != "" {
			errs = append(errs, errors.New("idle session carries state"))
		}
	case StatusGeneratingQuestion, StatusError:
	default:
		errs = append(errs, fmt.Errorf("unknown status %q", s.Status))
	}
	if s.LastError != "" && s.Status != StatusError {
		errs = append(errs, fmt.Errorf("error message present in status %q", s.Status))
	}
	return errors.Join(errs...)
}
