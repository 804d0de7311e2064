package registry

import (
	"sort"
	"sync"

	"github.com/aretw0/valet/pkg/ports"
)

// Registry maps intent names to their capability providers. It is intentionally
// decoupled from the intent schema: a schema-known intent with no registered
// provider resolves to not-found, which dispatch reports as not-implemented
// rather than a crash.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ports.Provider
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		providers: make(map[string]ports.Provider),
	}
}

// Register adds a provider for an intent name.
// If a provider with the same name exists, it is replaced. Tests rely on this
// to substitute doubles.
func (r *Registry) Register(name string, p ports.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// RegisterFunc registers a plain function as the provider for an intent name.
func (r *Registry) RegisterFunc(name string, fn ports.ProviderFunc) {
	r.Register(name, fn)
}

// Resolve looks up the provider for an intent name.
func (r *Registry) Resolve(name string) (ports.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered intent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
