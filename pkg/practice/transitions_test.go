package practice

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type edge struct {
	from  domain.Status
	event domain.EventType
	to    domain.Status
}

// TestTransitionsTableCoversMachine drives the machine down every path and
// checks each observed transition is listed in the table.
func TestTransitionsTableCoversMachine(t *testing.T) {
	table := make(map[edge]bool)
	for _, tr := range Transitions() {
		table[edge{tr.From, tr.Event, tr.To}] = true
	}

	var seen []edge
	hooks := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			seen = append(seen, edge{e.From, e.Type, e.To})
		},
	}

	ctx := context.Background()
	svc := &fakeService{question: "Q", feedback: "F"}
	m := New(svc, WithLifecycleHooks(hooks))

	// 1. Happy path
	_, _ = m.StartPractice(ctx)
	_, _ = m.SetDraft(ctx, "draft")
	_, _ = m.SubmitAnswer(ctx, "answer")
	_, _ = m.SetDraft(ctx, "edited")
	_, _ = m.SubmitAnswer(ctx, "answer")
	_, _ = m.SubmitAnswer(ctx, "again")
	_, _ = m.RequestNewQuestion(ctx)
	_, _ = m.RequestNewQuestion(ctx)

	// 2. Failures and recovery from error
	svc.feedbackErr = errors.New("down")
	_, _ = m.SubmitAnswer(ctx, "answer")
	_, _ = m.SetDraft(ctx, "retry")
	svc.feedbackErr = nil
	_, _ = m.SubmitAnswer(ctx, "answer")
	svc.questionErr = errors.New("down")
	_, _ = m.RequestNewQuestion(ctx)
	svc.questionErr = nil
	_, _ = m.RequestNewQuestion(ctx)

	m.Reset(ctx)
	svc.questionErr = errors.New("down")
	_, _ = m.StartPractice(ctx)
	svc.questionErr = nil
	_, _ = m.StartPractice(ctx)

	// 3. Reset and role selection
	m.SelectRole(ctx, &domain.JobRole{ID: 2, Title: "Data Scientist"})
	m.Reset(ctx)

	assert.NotEmpty(t, seen)
	for _, e := range seen {
		assert.True(t, table[e], "transition %s --%s--> %s missing from table", e.from, e.event, e.to)
	}
}

func TestTransitionsResetFromEveryStatus(t *testing.T) {
	resets := make(map[domain.Status]bool)
	for _, tr := range Transitions() {
		if tr.Event == domain.EventReset {
			assert.Equal(t, domain.StatusIdle, tr.To)
			resets[tr.From] = true
		}
	}
	assert.Len(t, resets, 6)
}
