package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/intervista/pkg/domain"
)

// LoggingHooks returns hooks that audit every lifecycle event on logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "session_transition",
				"session_id", e.SessionID,
				"event", e.Type,
				"from", e.From,
				"to", e.To,
			)
		},
		OnReject: func(ctx context.Context, e *domain.RejectEvent) {
			logger.DebugContext(ctx, "intent_rejected",
				"session_id", e.SessionID,
				"event", e.Type,
				"status", e.Status,
				"reason", e.Reason,
			)
		},
		OnRequest: func(ctx context.Context, e *domain.RequestEvent) {
			logger.DebugContext(ctx, "backend_request", "session_id", e.SessionID, "operation", e.Operation)
		},
		OnResponse: func(ctx context.Context, e *domain.RequestEvent) {
			logger.DebugContext(ctx, "backend_response",
				"session_id", e.SessionID,
				"operation", e.Operation,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
		OnDiscard: func(ctx context.Context, e *domain.RequestEvent) {
			logger.InfoContext(ctx, "stale_response_discarded", "session_id", e.SessionID, "operation", e.Operation)
		},
	}
}
