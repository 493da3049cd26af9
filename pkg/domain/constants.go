package domain

const (
	// DefaultJobRoleTitle is sent as the role context when no role was selected.
	DefaultJobRoleTitle = "Software Engineer"

	// ExperienceBeginner is the only experience level the client requests questions for.
	ExperienceBeginner = "beginner"
)

// User-facing failure messages. The technical cause is logged, never shown.
const (
	MsgGenerateFailed = "Failed to generate question. Try again."
	MsgEvaluateFailed = "Failed to evaluate answer. Try again."
)

// Operation names used in request events and metrics labels.
const (
	OpGenerateQuestion = "generate-question"
	OpEvaluateAnswer   = "evaluate-answer"
)
