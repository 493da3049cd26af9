package domain

import (
	"context"
	"time"
)

// EventType names the events the practice state machine reacts to.
type EventType string

const (
	EventStartPractice      EventType = "start_practice"
	EventRequestNewQuestion EventType = "request_new_question"
	EventQuestionReceived   EventType = "question_received"
	EventQuestionFailed     EventType = "question_failed"
	EventDraftChanged       EventType = "draft_changed"
	EventSubmitAnswer       EventType = "submit_answer"
	EventFeedbackReceived   EventType = "feedback_received"
	EventFeedbackFailed     EventType = "feedback_failed"
	EventReset              EventType = "reset"
	EventRoleSelected       EventType = "role_selected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted after the machine applied an event.
type TransitionEvent struct {
	EventBase
	From Status `json:"from"`
	To   Status `json:"to"`

	// Session is the snapshot after the transition.
	Session Session `json:"session"`
}

// RejectEvent is emitted when a guard rejects an event.
type RejectEvent struct {
	EventBase
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// RequestEvent describes an outbound call to the question service.
type RequestEvent struct {
	EventBase
	Operation string        `json:"operation"`
	Duration  time.Duration `json:"duration,omitempty"`
	IsError   bool          `json:"is_error,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for state machine observability.
// Hooks run synchronously and must not call back into the machine.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnReject     func(context.Context, *RejectEvent)
	OnRequest    func(context.Context, *RequestEvent)
	OnResponse   func(context.Context, *RequestEvent)

	// OnDiscard fires when a response arrives for a session that was reset meanwhile.
	OnDiscard func(context.Context, *RequestEvent)
}

// ChainHooks combines several hook sets; each callback runs in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hooks {
		out.OnTransition = chain(out.OnTransition, h.OnTransition)
		out.OnReject = chain(out.OnReject, h.OnReject)
		out.OnRequest = chain(out.OnRequest, h.OnRequest)
		out.OnResponse = chain(out.OnResponse, h.OnResponse)
		out.OnDiscard = chain(out.OnDiscard, h.OnDiscard)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
