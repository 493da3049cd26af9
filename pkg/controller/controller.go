package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
	"github.com/aretw0/intervista/pkg/practice"
)

// Intent is a user action the controller accepts.
type Intent string

const (
	IntentStart      Intent = "start"
	IntentRegenerate Intent = "regenerate"
	IntentSubmit     Intent = "submit"
	IntentReset      Intent = "reset"
	IntentDraft      Intent = "draft"
	IntentSelectRole Intent = "select_role"
)

// Controller translates intents into state machine events and publishes the results.
type Controller struct {
	id       string
	machine  *practice.Machine
	recorder ports.SessionRecorder
	streams  *broadcaster
	limiters map[Intent]*rate.Limiter
	logger   *slog.Logger

	// construction-time settings
	role      *domain.JobRole
	hooks     []domain.LifecycleHooks
	debounce  time.Duration
	buffer    int
	maxAnswer int
}

// New creates a controller driving a fresh session against service.
func New(service ports.QuestionService, opts ...Option) *Controller {
	c := &Controller{
		id:     uuid.NewString(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.streams = newBroadcaster(c.buffer)
	c.limiters = make(map[Intent]*rate.Limiter)
	if c.debounce > 0 {
		for _, intent := range []Intent{IntentStart, IntentRegenerate, IntentSubmit} {
			c.limiters[intent] = rate.NewLimiter(rate.Every(c.debounce), 1)
		}
	}

	publish := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			c.streams.Publish(e.Session)
		},
	}
	hooks := domain.ChainHooks(append(append([]domain.LifecycleHooks{}, c.hooks...), publish)...)

	machineOpts := []practice.Option{
		practice.WithSessionID(c.id),
		practice.WithLogger(c.logger),
		practice.WithLifecycleHooks(hooks),
		practice.WithRole(c.role),
	}
	if c.maxAnswer > 0 {
		machineOpts = append(machineOpts, practice.WithMaxAnswerSize(c.maxAnswer))
	}
	c.machine = practice.New(service, machineOpts...)
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() domain.Session {
	return c.machine.Snapshot()
}

// Role returns the selected role, or nil when practicing with the default role.
func (c *Controller) Role() *domain.JobRole {
	return c.machine.Role()
}

// Subscribe returns a channel receiving a snapshot after every transition,
// and a function to stop the subscription.
func (c *Controller) Subscribe() (<-chan domain.Session, func()) {
	return c.streams.Subscribe()
}

// Close ends all subscriptions.
func (c *Controller) Close() {
	c.streams.Close()
}

// Enabled reports whether intent would currently be accepted.
func (c *Controller) Enabled(intent Intent) bool {
	if c.machine.Busy() {
		return intent == IntentReset || intent == IntentSelectRole
	}
	s := c.machine.Snapshot()
	switch intent {
	case IntentStart:
		return !s.HasQuestion()
	case IntentRegenerate, IntentSubmit, IntentDraft:
		return s.HasQuestion()
	case IntentReset, IntentSelectRole:
		return true
	}
	return false
}

// SelectRole switches to role, discarding the session if the role changes.
func (c *Controller) SelectRole(ctx context.Context, role *domain.JobRole) domain.Session {
	return c.machine.SelectRole(ctx, role)
}

// Start requests the first question.
func (c *Controller) Start(ctx context.Context) domain.Session {
	if !c.allow(IntentStart) {
		return c.machine.Snapshot()
	}
	s, err := c.machine.StartPractice(ctx)
	return c.settle(IntentStart, s, err)
}

// Regenerate replaces the current question with a new one.
func (c *Controller) Regenerate(ctx context.Context) domain.Session {
	if !c.allow(IntentRegenerate) {
		return c.machine.Snapshot()
	}
	s, err := c.machine.RequestNewQuestion(ctx)
	return c.settle(IntentRegenerate, s, err)
}

// Draft updates the answer being typed.
func (c *Controller) Draft(ctx context.Context, text string) domain.Session {
	s, err := c.machine.SetDraft(ctx, text)
	return c.settle(IntentDraft, s, err)
}

// Submit sends text as the answer to the current question.
func (c *Controller) Submit(ctx context.Context, text string) domain.Session {
	if !c.allow(IntentSubmit) {
		return c.machine.Snapshot()
	}
	s, err := c.machine.SubmitAnswer(ctx, text)
	return c.settle(IntentSubmit, s, err)
}

// Reset discards the session. It is accepted at any time.
func (c *Controller) Reset(ctx context.Context) domain.Session {
	return c.machine.Reset(ctx)
}

// Save posts the current question, answer and feedback to the sessions endpoint.
func (c *Controller) Save(ctx context.Context) (json.RawMessage, error) {
	if c.recorder == nil {
		return nil, domain.ErrNoRecorder
	}
	record := Record(c.machine.Snapshot())
	raw, err := c.recorder.CreateSession(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return raw, nil
}

// Record converts a snapshot into the conversation history stored by the backend.
func Record(s domain.Session) domain.SessionRecord {
	rec := domain.SessionRecord{
		Title:               s.JobRoleTitle + " practice",
		ConversationHistory: []domain.Message{},
		Feedback:            s.Feedback,
	}
	if s.CurrentQuestion != "" {
		rec.ConversationHistory = append(rec.ConversationHistory, domain.Message{Role: "assistant", Content: s.CurrentQuestion})
	}
	if s.DraftAnswer != "" {
		rec.ConversationHistory = append(rec.ConversationHistory, domain.Message{Role: "user", Content: s.DraftAnswer})
	}
	if s.Feedback != "" {
		rec.ConversationHistory = append(rec.ConversationHistory, domain.Message{Role: "assistant", Content: s.Feedback})
	}
	return rec
}

func (c *Controller) allow(intent Intent) bool {
	limiter, ok := c.limiters[intent]
	if !ok || limiter.Allow() {
		return true
	}
	c.logger.Debug("intent debounced", "session_id", c.id, "intent", intent)
	return false
}

func (c *Controller) settle(intent Intent, s domain.Session, err error) domain.Session {
	if err != nil {
		if domain.IsGuardViolation(err) {
			c.logger.Debug("intent ignored", "session_id", c.id, "intent", intent, "reason", err)
		} else {
			c.logger.Warn("intent failed", "session_id", c.id, "intent", intent, "error", err)
		}
	}
	return s
}
