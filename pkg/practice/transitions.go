package practice

import "github.com/aretw0/intervista/pkg/domain"

// Transition is one row of the machine's transition table.
type Transition struct {
	From  domain.Status
	Event domain.EventType
	To    domain.Status
	// Guard is a short human description; empty means unguarded.
	Guard string
}

// Transitions returns the transition table the Machine enforces. Reset and
// role selection are listed once per status they can leave. Error rows follow the effective status
// rule: a held question makes error behave like question_ready.
func Transitions() []Transition {
	t := []Transition{
		{From: domain.StatusIdle, Event: domain.EventStartPractice, To: domain.StatusGeneratingQuestion, Guard: "role selected"},
		{From: domain.StatusQuestionReady, Event: domain.EventRequestNewQuestion, To: domain.StatusGeneratingQuestion},
		{From: domain.StatusFeedbackReady, Event: domain.EventRequestNewQuestion, To: domain.StatusGeneratingQuestion},
		{From: domain.StatusGeneratingQuestion, Event: domain.EventQuestionReceived, To: domain.StatusQuestionReady},
		{From: domain.StatusGeneratingQuestion, Event: domain.EventQuestionFailed, To: domain.StatusError},
		{From: domain.StatusQuestionReady, Event: domain.EventSubmitAnswer, To: domain.StatusEvaluating, Guard: "answer not blank"},
		{From: domain.StatusFeedbackReady, Event: domain.EventSubmitAnswer, To: domain.StatusEvaluating, Guard: "answer not blank"},
		{From: domain.StatusQuestionReady, Event: domain.EventDraftChanged, To: domain.StatusQuestionReady},
		{From: domain.StatusFeedbackReady, Event: domain.EventDraftChanged, To: domain.StatusQuestionReady},
		{From: domain.StatusError, Event: domain.EventDraftChanged, To: domain.StatusError, Guard: "question held"},
		{From: domain.StatusEvaluating, Event: domain.EventFeedbackReceived, To: domain.StatusFeedbackReady},
		{From: domain.StatusEvaluating, Event: domain.EventFeedbackFailed, To: domain.StatusError},
		{From: domain.StatusError, Event: domain.EventStartPractice, To: domain.StatusGeneratingQuestion, Guard: "no question held"},
		{From: domain.StatusError, Event: domain.EventRequestNewQuestion, To: domain.StatusGeneratingQuestion, Guard: "question held"},
		{From: domain.StatusError, Event: domain.EventSubmitAnswer, To: domain.StatusEvaluating, Guard: "question held"},
	}
	for _, st := range []domain.Status{
		domain.StatusIdle,
		domain.StatusGeneratingQuestion,
		domain.StatusQuestionReady,
		domain.StatusEvaluating,
		domain.StatusFeedbackReady,
		domain.StatusError,
	} {
		t = append(t,
			Transition{From: st, Event: domain.EventReset, To: domain.StatusIdle},
			Transition{From: st, Event: domain.EventRoleSelected, To: domain.StatusIdle},
		)
	}
	return t
}
