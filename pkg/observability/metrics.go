package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/intervista/pkg/domain"
)

// Metrics holds the practice session collectors.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Rejections      *prometheus.CounterVec
	Discarded       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg (if not nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intervista_transitions_total",
				Help: "Total number of applied state machine transitions",
			},
			[]string{"event", "from", "to"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intervista_request_duration_seconds",
				Help:    "Duration of question generation and answer evaluation calls",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "outcome"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intervista_rejected_intents_total",
				Help: "Total number of intents rejected by a transition guard",
			},
			[]string{"event", "status"},
		),
		Discarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intervista_discarded_responses_total",
				Help: "Total number of responses discarded because the session was reset",
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.RequestDuration, m.Rejections, m.Discarded)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.Type), string(e.From), string(e.To)).Inc()
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.Rejections.WithLabelValues(string(e.Type), string(e.Status)).Inc()
		},
		OnResponse: func(_ context.Context, e *domain.RequestEvent) {
			outcome := "success"
			if e.IsError {
				outcome = "error"
			}
			m.RequestDuration.WithLabelValues(e.Operation, outcome).Observe(e.Duration.Seconds())
		},
		OnDiscard: func(_ context.Context, e *domain.RequestEvent) {
			m.Discarded.WithLabelValues(e.Operation).Inc()
		},
	}
}
