package practice

import (
	"log/slog"
	"time"

	"github.com/aretw0/intervista/pkg/domain"
)

// Option configures a Machine.
type Option func(*Machine)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithSessionID sets the identifier carried by snapshots and events.
func WithSessionID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

// WithRole preselects the job role.
func WithRole(role *domain.JobRole) Option {
	return func(m *Machine) {
		m.role = cloneRole(role)
	}
}

// WithMaxAnswerSize caps the size of a draft answer in bytes.
func WithMaxAnswerSize(n int) Option {
	return func(m *Machine) {
		m.maxAnswer = n
	}
}

// WithClock overrides the time source used for event timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}
