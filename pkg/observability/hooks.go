package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/valet/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log pipeline events. Turn
// completions log at info; the rest at debug.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn started",
				"session_id", e.SessionID,
				"turn", e.Turn,
			)
		},
		OnTurnEnd: func(ctx context.Context, e *domain.TurnEvent) {
			logger.InfoContext(ctx, "turn completed",
				"session_id", e.SessionID,
				"turn", e.Turn,
				"intent", e.Intent,
				"ok", e.OK,
				"kind", string(e.Kind),
				"duration", e.Duration,
			)
		},
		OnLLMReturn: func(ctx context.Context, e *domain.LLMEvent) {
			logger.DebugContext(ctx, "model returned",
				"session_id", e.SessionID,
				"turn", e.Turn,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
		OnProviderCall: func(ctx context.Context, e *domain.ProviderEvent) {
			logger.DebugContext(ctx, "provider invoked",
				"session_id", e.SessionID,
				"intent", e.Intent,
			)
		},
		OnProviderReturn: func(ctx context.Context, e *domain.ProviderEvent) {
			logger.DebugContext(ctx, "provider returned",
				"session_id", e.SessionID,
				"intent", e.Intent,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
	}
}

// Merge combines hook sets into one; every non-nil callback runs in order.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range hooks {
				if h.OnTurnStart != nil {
					h.OnTurnStart(ctx, e)
				}
			}
		},
		OnTurnEnd: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range hooks {
				if h.OnTurnEnd != nil {
					h.OnTurnEnd(ctx, e)
				}
			}
		},
		OnLLMReturn: func(ctx context.Context, e *domain.LLMEvent) {
			for _, h := range hooks {
				if h.OnLLMReturn != nil {
					h.OnLLMReturn(ctx, e)
				}
			}
		},
		OnProviderCall: func(ctx context.Context, e *domain.ProviderEvent) {
			for _, h := range hooks {
				if h.OnProviderCall != nil {
					h.OnProviderCall(ctx, e)
				}
			}
		},
		OnProviderReturn: func(ctx context.Context, e *domain.ProviderEvent) {
			for _, h := range hooks {
				if h.OnProviderReturn != nil {
					h.OnProviderReturn(ctx, e)
				}
			}
		},
	}
}
