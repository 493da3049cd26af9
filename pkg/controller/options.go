package controller

import (
	"log/slog"
	"time"

	"github.com/aretw0/intervista/pkg/domain"
	"github.com/aretw0/intervista/pkg/ports"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger configures the structured logger (shared with the state machine).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks on the state machine.
// They run alongside the controller's own publishing hook.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithRole preselects the job role.
func WithRole(role *domain.JobRole) Option {
	return func(c *Controller) {
		c.role = role
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// WithDebounce drops repeated start, regenerate and submit intents arriving
// within d of the previous accepted one. Zero disables debouncing.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

// WithRecorder enables Save through the given sessions endpoint client.
func WithRecorder(r ports.SessionRecorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithSubscriberBuffer sets how many snapshots each subscriber may lag behind.
func WithSubscriberBuffer(n int) Option {
	return func(c *Controller) {
		c.buffer = n
	}
}

// WithMaxAnswerSize caps the size of an answer in bytes.
func WithMaxAnswerSize(n int) Option {
	return func(c *Controller) {
		c.maxAnswer = n
	}
}
