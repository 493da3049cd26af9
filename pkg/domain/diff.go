package domain

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on a render layer.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	JobRoleTitle    *string `json:"job_role,omitempty"`
	CurrentQuestion *string `json:"question,omitempty"`
	DraftAnswer     *string `json:"draft_answer,omitempty"`
	Feedback        *string `json:"feedback,omitempty"`
	Status          *Status `json:"status,omitempty"`
	LastError       *string `json:"last_error,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, every non-empty field of newSession is reported (initial render).
// Cleared fields are reported as pointers to the empty string.
// Returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	var base Session
	initial := oldSession == nil
	if !initial {
		base = *oldSession
	}

	diff := &SessionDiff{SessionID: newSession.ID}
	diff.JobRoleTitle = changed(initial, base.JobRoleTitle, newSession.JobRoleTitle)
	diff.CurrentQuestion = changed(initial, base.CurrentQuestion, newSession.CurrentQuestion)
	diff.DraftAnswer = changed(initial, base.DraftAnswer, newSession.DraftAnswer)
	diff.Feedback = changed(initial, base.Feedback, newSession.Feedback)
	diff.LastError = changed(initial, base.LastError, newSession.LastError)
	if initial || base.Status != newSession.Status {
		status := newSession.Status
		diff.Status = &status
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func changed(initial bool, old, new string) *string {
	if initial {
		if new == "" {
			return nil
		}
		return &new
	}
	if old == new {
		return nil
	}
	return &new
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.JobRoleTitle == nil &&
		d.CurrentQuestion == nil &&
		d.DraftAnswer == nil &&
		d.Feedback == nil &&
		d.Status == nil &&
		d.LastError == nil
}
