package domain

// QuestionRequest is the generate-question payload.
type QuestionRequest struct {
	JobRole         string `json:"job_role"`
	ExperienceLevel string `json:"experience_level"`
}

// QuestionResponse is the generate-question response body.
type QuestionResponse struct {
	Question string `json:"question"`
}

// EvaluationRequest is the evaluate-answer payload.
type EvaluationRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	JobRole  string `json:"job_role"`
}

// EvaluationResponse is the evaluate-answer response body.
type EvaluationResponse struct {
	Feedback string `json:"feedback"`
}

// Message is a single entry of a saved conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionRecord is the payload posted to the sessions endpoint.
type SessionRecord struct {
	Title               string    `json:"title"`
	ConversationHistory []Message `json:"conversation_history"`
	Feedback            string    `json:"feedback,omitempty"`
}
