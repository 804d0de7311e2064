package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/ports"
)

// RedactionConfig selects what gets masked before state reaches the store.
type RedactionConfig struct {
	// KeyPatterns match entity keys (e.g. "password", "token"). Matching
	// entries keep their key but are stored as "***".
	KeyPatterns []string

	// ValuePatterns match substrings of recorded utterances and responses
	// (e.g. card numbers). Matches are replaced with "***".
	ValuePatterns []string
}

type redactionMiddleware struct {
	next          ports.StateStore
	keyPatterns   []*regexp.Regexp
	valuePatterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks sensitive entity
// values and scrubs matching text from history before persistence.
func NewRedactionMiddleware(config RedactionConfig) Middleware {
	keys := compilePatterns(config.KeyPatterns)
	values := compilePatterns(config.ValuePatterns)
	return func(next ports.StateStore) ports.StateStore {
		return &redactionMiddleware{
			next:          next,
			keyPatterns:   keys,
			valuePatterns: values,
		}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// 1. Deep clone to avoid side effects on the state the dispatcher keeps using.
	cloned := state.Clone()
	if cloned.Pending != nil {
		cloned.Pending.Entities = deepCopyEntities(cloned.Pending.Entities)
	}

	// 2. Mask
	if cloned.Pending != nil {
		maskEntities(cloned.Pending.Entities, m.keyPatterns)
	}
	for i := range cloned.History {
		cloned.History[i].Utterance = m.scrub(cloned.History[i].Utterance)
		cloned.History[i].Response = m.scrub(cloned.History[i].Response)
	}

	return m.next.Save(ctx, sessionID, cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) scrub(s string) string {
	for _, p := range m.valuePatterns {
		s = p.ReplaceAllString(s, "***")
	}
	return s
}

// Helpers

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func deepCopyEntities(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		// Handle nested maps
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyEntities(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskEntities(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		// Check key against patterns
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok {
			maskEntities(subMap, patterns)
		}
	}
}
