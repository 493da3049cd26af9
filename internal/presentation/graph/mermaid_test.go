package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/intervista/internal/presentation/graph"
	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/practice"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		transitions []practice.Transition
		overlay     *graph.Overlay
		contains    []string
		excludes    []string
	}{
		{
			name:        "Status Shapes",
			transitions: practice.Transitions(),
			contains: []string{
				`idle(("idle"))`,
				`generating_question[["generating_question"]]`,
				`evaluating[["evaluating"]]`,
				`error{{"error"}}`,
				`question_ready["question_ready"]`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Guard Labels",
			transitions: []practice.Transition{
				{From: domain.StatusQuestionReady, Event: domain.EventSubmitAnswer, To: domain.StatusEvaluating, Guard: `answer "not" blank`},
			},
			contains: []string{
				`question_ready -- "submit_answer [answer 'not' blank]" --> evaluating`,
			},
		},
		{
			name: "Reset Edges Folded",
			transitions: []practice.Transition{
				{From: domain.StatusEvaluating, Event: domain.EventReset, To: domain.StatusIdle},
				{From: domain.StatusEvaluating, Event: domain.EventRoleSelected, To: domain.StatusIdle},
				{From: domain.StatusIdle, Event: domain.EventReset, To: domain.StatusIdle},
			},
			contains: []string{"evaluating -. reset .-> idle"},
			excludes: []string{"idle -. reset .-> idle", "role_selected"},
		},
		{
			name:        "Overlay",
			transitions: practice.Transitions(),
			overlay: &graph.Overlay{
				Visited: []domain.Status{domain.StatusIdle, domain.StatusGeneratingQuestion, domain.StatusIdle, domain.StatusQuestionReady},
				Current: domain.StatusQuestionReady,
			},
			contains: []string{
				"class idle visited;",
				"class generating_question visited;",
				"class question_ready current;",
			},
			excludes: []string{"class question_ready visited;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.transitions, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
			if strings.Count(got, "class idle visited;") > 1 {
				t.Errorf("visited statuses must be deduplicated")
			}
		})
	}
}
