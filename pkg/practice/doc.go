/*
Package practice implements the practice-session state machine.

A Machine owns exactly one domain.Session. Intents (StartPractice, RequestNewQuestion,
SubmitAnswer, Reset, ...) are validated against transition guards under a mutex; the
network call a transition triggers runs outside the lock, and its result is applied as a
follow-up event (QuestionReceived, FeedbackFailed, ...).

	idle --StartPractice--> generating_question --QuestionReceived--> question_ready
	question_ready --SubmitAnswer--> evaluating --FeedbackReceived--> feedback_ready
	generating_question|evaluating --*Failed--> error
	any --Reset--> idle

Only one request is ever in flight per session. Reset (and selecting a different role)
bumps an epoch so that a response arriving afterwards is discarded instead of applied.
*/
package practice
