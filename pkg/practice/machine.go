package practice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
)

// Machine is the practice-session state machine.
// It is safe for concurrent use; transitions are serialized.
type Machine struct {
	mu      sync.Mutex
	session domain.Session
	role    *domain.JobRole

	// epoch changes on Reset and role change. A response tagged with an older
	// epoch is stale and must not touch the session.
	epoch uint64

	// inflight is set while a request is outstanding, stale or not.
	// At most one request per session is ever in flight.
	inflight bool

	id        string
	service   ports.QuestionService
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
	maxAnswer int
}

// New creates an idle machine that uses service for the AI operations.
func New(service ports.QuestionService, opts ...Option) *Machine {
	m := &Machine{
		service:   service,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		maxAnswer: DefaultMaxAnswerSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.session = domain.NewSession(m.id, domain.RoleTitle(m.role))
	return m
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Busy reports whether a request is outstanding. It stays true after a Reset
// until the discarded request has resolved.
func (m *Machine) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy()
}

// Role returns a copy of the selected role, or nil if none was selected.
func (m *Machine) Role() *domain.JobRole {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRole(m.role)
}

// SelectRole switches the practice to a different role.
// Selecting the current role is a no-op; any other role discards the session,
// including a pending result.
func (m *Machine) SelectRole(ctx context.Context, role *domain.JobRole) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if domain.SameRole(m.role, role) {
		return m.session
	}

	from := m.session.Status
	m.role = cloneRole(role)
	m.epoch++
	m.session = domain.NewSession(m.id, domain.RoleTitle(m.role))
	m.transition(ctx, domain.EventRoleSelected, from)
	return m.session
}

// Reset discards the session and returns to idle. It is legal in every state.
func (m *Machine) Reset(ctx context.Context) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.session.Status
	m.epoch++
	m.session = domain.NewSession(m.id, m.session.JobRoleTitle)
	m.transition(ctx, domain.EventReset, from)
	return m.session
}

// StartPractice requests the first question. Legal from idle.
func (m *Machine) StartPractice(ctx context.Context) (domain.Session, error) {
	return m.generate(ctx, domain.EventStartPractice)
}

// RequestNewQuestion replaces the current question. Legal once a question is held.
func (m *Machine) RequestNewQuestion(ctx context.Context) (domain.Session, error) {
	return m.generate(ctx, domain.EventRequestNewQuestion)
}

// SetDraft updates the draft answer without submitting it.
// Editing while feedback is shown returns the session to question_ready.
func (m *Machine) SetDraft(ctx context.Context, text string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := domain.EventDraftChanged
	if m.busy() {
		return m.session, m.reject(ctx, event, domain.ErrBusy)
	}
	if !m.session.HasQuestion() {
		return m.session, m.reject(ctx, event, domain.ErrNoQuestion)
	}
	clean, err := CleanAnswer(text, m.maxAnswer)
	if err != nil {
		return m.session, m.reject(ctx, event, err)
	}

	from := m.session.Status
	if clean == m.session.DraftAnswer && from != domain.StatusFeedbackReady {
		return m.session, nil
	}

	m.session.DraftAnswer = clean
	if from == domain.StatusFeedbackReady {
		m.session.Feedback = ""
		m.session.Status = domain.StatusQuestionReady
	}
	m.transition(ctx, event, from)
	return m.session, nil
}

// SubmitAnswer sends answer for evaluation against the current question.
// A blank answer is rejected without touching the session.
func (m *Machine) SubmitAnswer(ctx context.Context, answer string) (domain.Session, error) {
	event := domain.EventSubmitAnswer

	m.mu.Lock()
	clean, err := m.guardSubmit(answer)
	if err != nil {
		defer m.mu.Unlock()
		return m.session, m.reject(ctx, event, err)
	}

	from := m.session.Status
	m.session.DraftAnswer = clean
	m.session.Feedback = ""
	m.session.LastError = ""
	m.session.Status = domain.StatusEvaluating
	m.inflight = true
	m.transition(ctx, event, from)

	epoch := m.epoch
	req := domain.EvaluationRequest{
		Question: m.session.CurrentQuestion,
		Answer:   clean,
		JobRole:  m.session.JobRoleTitle,
	}
	m.mu.Unlock()

	start := m.now()
	m.request(ctx, domain.OpEvaluateAnswer)
	feedback, err := m.service.EvaluateAnswer(ctx, req)
	if err == nil && strings.TrimSpace(feedback) == "" {
		err = errors.New("empty feedback")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.respond(ctx, domain.OpEvaluateAnswer, epoch, start, err) {
		return m.session, nil
	}

	from = m.session.Status
	if err != nil {
		m.logFailure(domain.OpEvaluateAnswer, err)
		m.session.Status = domain.StatusError
		m.session.LastError = domain.MsgEvaluateFailed
		m.transition(ctx, domain.EventFeedbackFailed, from)
		return m.session, nil
	}

	m.session.Feedback = feedback
	m.session.Status = domain.StatusFeedbackReady
	m.transition(ctx, domain.EventFeedbackReceived, from)
	return m.session, nil
}

func (m *Machine) generate(ctx context.Context, event domain.EventType) (domain.Session, error) {
	m.mu.Lock()
	if err := m.guardGenerate(event); err != nil {
		defer m.mu.Unlock()
		return m.session, m.reject(ctx, event, err)
	}

	from := m.session.Status
	m.session.Feedback = ""
	m.session.LastError = ""
	m.session.Status = domain.StatusGeneratingQuestion
	m.inflight = true
	m.transition(ctx, event, from)

	epoch := m.epoch
	req := domain.QuestionRequest{
		JobRole:         m.session.JobRoleTitle,
		ExperienceLevel: domain.ExperienceBeginner,
	}
	m.mu.Unlock()

	start := m.now()
	m.request(ctx, domain.OpGenerateQuestion)
	question, err := m.service.GenerateQuestion(ctx, req)
	if err == nil && strings.TrimSpace(question) == "" {
		err = errors.New("empty question")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.respond(ctx, domain.OpGenerateQuestion, epoch, start, err) {
		return m.session, nil
	}

	from = m.session.Status
	if err != nil {
		m.logFailure(domain.OpGenerateQuestion, err)
		m.session.Status = domain.StatusError
		m.session.LastError = domain.MsgGenerateFailed
		m.transition(ctx, domain.EventQuestionFailed, from)
		return m.session, nil
	}

	m.session.CurrentQuestion = question
	m.session.DraftAnswer = ""
	m.session.Feedback = ""
	m.session.Status = domain.StatusQuestionReady
	m.transition(ctx, domain.EventQuestionReceived, from)
	return m.session, nil
}

func (m *Machine) guardSubmit(answer string) (string, error) {
	if m.busy() {
		return "", domain.ErrBusy
	}
	switch m.effectiveStatus() {
	case domain.StatusQuestionReady, domain.StatusFeedbackReady:
	case domain.StatusIdle:
		return "", domain.ErrNoQuestion
	default:
		return "", domain.ErrIllegalTransition
	}
	clean, err := CleanAnswer(answer, m.maxAnswer)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(clean) == "" {
		return "", domain.ErrEmptyAnswer
	}
	return clean, nil
}

func (m *Machine) guardGenerate(event domain.EventType) error {
	if m.busy() {
		return domain.ErrBusy
	}
	status := m.effectiveStatus()
	switch event {
	case domain.EventStartPractice:
		if status == domain.StatusIdle {
			return nil
		}
	case domain.EventRequestNewQuestion:
		if status == domain.StatusQuestionReady || status == domain.StatusFeedbackReady {
			return nil
		}
		if status == domain.StatusIdle {
			return domain.ErrNoQuestion
		}
	}
	return domain.ErrIllegalTransition
}

// busy must be called with mu held.
func (m *Machine) busy() bool {
	return m.inflight || m.session.Status.Busy()
}

// effectiveStatus maps the error state to the ready state it interrupted.
// Must be called with mu held.
func (m *Machine) effectiveStatus() domain.Status {
	if m.session.Status != domain.StatusError {
		return m.session.Status
	}
	if m.session.HasQuestion() {
		return domain.StatusQuestionReady
	}
	return domain.StatusIdle
}

// respond reports the outcome of a request and whether it still applies.
// Must be called with mu held.
func (m *Machine) respond(ctx context.Context, op string, epoch uint64, start time.Time, err error) bool {
	m.inflight = false
	evt := &domain.RequestEvent{
		EventBase: m.base(""),
		Operation: op,
		Duration:  m.now().Sub(start),
		IsError:   err != nil,
		Err:       err,
	}
	if epoch != m.epoch {
		m.logger.Debug("discarding stale response", "session_id", m.id, "operation", op)
		if m.hooks.OnDiscard != nil {
			m.hooks.OnDiscard(ctx, evt)
		}
		return false
	}
	if m.hooks.OnResponse != nil {
		m.hooks.OnResponse(ctx, evt)
	}
	return true
}

func (m *Machine) request(ctx context.Context, op string) {
	if m.hooks.OnRequest == nil {
		return
	}
	m.hooks.OnRequest(ctx, &domain.RequestEvent{
		EventBase: m.base(""),
		Operation: op,
	})
}

// transition reports a completed transition. Must be called with mu held.
func (m *Machine) transition(ctx context.Context, event domain.EventType, from domain.Status) {
	if err := m.session.Validate(); err != nil {
		m.logger.Error("session invariant violated", "session_id", m.id, "event", event, "error", err)
	}
	m.logger.Debug("transition", "session_id", m.id, "event", event, "from", from, "to", m.session.Status)
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: m.base(event),
			From:      from,
			To:        m.session.Status,
			Session:   m.session,
		})
	}
}

// reject builds the guard violation for event. Must be called with mu held.
func (m *Machine) reject(ctx context.Context, event domain.EventType, reason error) error {
	gv := &domain.GuardViolation{Event: event, Status: m.session.Status, Reason: reason}
	m.logger.Debug("event rejected", "session_id", m.id, "event", event, "status", m.session.Status, "reason", reason)
	if m.hooks.OnReject != nil {
		m.hooks.OnReject(ctx, &domain.RejectEvent{
			EventBase: m.base(event),
			Status:    m.session.Status,
			Reason:    reason.Error(),
		})
	}
	return gv
}

func (m *Machine) logFailure(op string, err error) {
	attrs := []any{"session_id", m.id, "operation", op, "error", err}
	var te *domain.TransportError
	if errors.As(err, &te) {
		attrs = append(attrs, "endpoint", te.Endpoint, "status", te.StatusCode)
	}
	m.logger.Warn("backend request failed", attrs...)
}

func (m *Machine) base(event domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: m.now(),
		Type:      event,
		SessionID: m.id,
	}
}

func cloneRole(role *domain.JobRole) *domain.JobRole {
	if role == nil {
		return nil
	}
	c := *role
	return &c
}
