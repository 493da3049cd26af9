package ports

import (
	"context"

	"github.com/aretw0/intervista/pkg/domain"
)

// QuestionService is the AI side of a practice session.
type QuestionService interface {
	// GenerateQuestion returns a non-empty question text.
	GenerateQuestion(ctx context.Context, req domain.QuestionRequest) (string, error)

	// EvaluateAnswer returns a non-empty feedback text.
	EvaluateAnswer(ctx context.Context, req domain.EvaluationRequest) (string, error)
}
