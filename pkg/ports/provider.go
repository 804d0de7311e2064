package ports

import "context"

// Provider executes the side effect for one intent. It receives the validated
// entities and returns the user-facing reply text.
//
// Returning a *domain.Failure controls the failure kind and message surfaced to
// the user; any other error is reported as a generic provider failure with the
// detail kept in the logs. Providers are stateless with respect to the pipeline;
// whatever state they hold (open app handles, player connections) is their own.
type Provider interface {
	Invoke(ctx context.Context, entities map[string]any) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, entities map[string]any) (string, error)

func (f ProviderFunc) Invoke(ctx context.Context, entities map[string]any) (string, error) {
	return f(ctx, entities)
}
