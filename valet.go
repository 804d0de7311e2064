package valet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/valet/internal/logging"
	"github.com/aretw0/valet/internal/pipeline"
	"github.com/aretw0/valet/internal/providers"
	"github.com/aretw0/valet/pkg/adapters/memory"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/ports"
	"github.com/aretw0/valet/pkg/registry"
	"github.com/aretw0/valet/pkg/schema"
	"github.com/aretw0/valet/pkg/session"
)

// Version is the release version of the valet library and CLI.
const Version = "0.3.0"

// DefaultSessionID is the session used when a caller does not name one.
const DefaultSessionID = "local"

// Assistant is the high-level entry point for the valet library. It wires the
// intent schema, the provider registry, the session manager, and the dispatch
// pipeline behind one surface, and is safe for concurrent use.
type Assistant struct {
	schema     *schema.Schema
	registry   *registry.Registry
	sessions   *session.Manager
	dispatcher *pipeline.Dispatcher

	store          ports.StateStore
	locker         ports.DistributedLocker
	completer      ports.Completer
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	timeout        time.Duration
	history        int
	defaultSession string
	root           string
	extraIntents   []schema.Definition
	customSchema   *schema.Schema
	skipBuiltins   bool
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithCompleter sets the language model client. Without one, dispatching
// reports the model unavailable while Execute keeps working.
func WithCompleter(c ports.Completer) Option {
	return func(a *Assistant) { a.completer = c }
}

// WithStore sets the session state store (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(a *Assistant) { a.store = store }
}

// WithLocker enables distributed session locking for multi-replica deployments.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(a *Assistant) { a.locker = locker }
}

// WithSchema replaces the builtin intent schema entirely.
func WithSchema(s *schema.Schema) Option {
	return func(a *Assistant) { a.customSchema = s }
}

// WithIntents adds intent definitions on top of the schema. Definitions with
// an already-known name replace the builtin one.
func WithIntents(defs ...schema.Definition) Option {
	return func(a *Assistant) { a.extraIntents = append(a.extraIntents, defs...) }
}

// WithLogger sets a structured logger for the pipeline and session manager.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks (metrics, audit logging).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) { a.hooks = hooks }
}

// WithLLMTimeout bounds each completion call. Zero disables the bound.
func WithLLMTimeout(timeout time.Duration) Option {
	return func(a *Assistant) { a.timeout = timeout }
}

// WithHistoryLimit caps how many exchanges a session remembers.
func WithHistoryLimit(n int) Option {
	return func(a *Assistant) { a.history = n }
}

// WithDefaultSession names the session used when callers pass an empty ID.
func WithDefaultSession(id string) Option {
	return func(a *Assistant) {
		if id != "" {
			a.defaultSession = id
		}
	}
}

// WithRoot anchors relative filesystem paths for the file intents
// (default: the user's home directory).
func WithRoot(root string) Option {
	return func(a *Assistant) { a.root = root }
}

// WithoutBuiltins skips registering the builtin providers. The schema still
// knows the builtin intents; dispatching one reports it as not implemented
// until a provider is registered.
func WithoutBuiltins() Option {
	return func(a *Assistant) { a.skipBuiltins = true }
}

// New initializes an Assistant. The zero configuration is fully functional:
// builtin intents over an in-memory store, no language model.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{
		logger:         logging.NewNop(),
		timeout:        pipeline.DefaultLLMTimeout,
		history:        domain.DefaultHistoryLimit,
		defaultSession: DefaultSessionID,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}

	a.schema = a.customSchema
	if a.schema == nil {
		a.schema = schema.New(schema.Builtin()...)
	}
	if len(a.extraIntents) > 0 {
		for _, def := range a.extraIntents {
			if err := validateDefinition(def); err != nil {
				return nil, err
			}
		}
		a.schema = a.schema.With(a.extraIntents...)
	}

	sessionOpts := []session.Option{session.WithLogger(a.logger)}
	if a.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(a.locker))
	}
	a.sessions = session.NewManager(a.store, sessionOpts...)

	a.registry = registry.New()
	if !a.skipBuiltins {
		providers.RegisterBuiltins(a.registry, providers.Config{
			Completer: a.completer,
			Root:      a.root,
		})
	}

	a.dispatcher = pipeline.New(a.schema, a.registry, a.sessions,
		pipeline.WithCompleter(a.completer),
		pipeline.WithHooks(a.hooks),
		pipeline.WithLogger(a.logger),
		pipeline.WithLLMTimeout(a.timeout),
		pipeline.WithHistoryLimit(a.history),
	)
	return a, nil
}

// validateDefinition applies the same checks to programmatic definitions that
// the pack loader applies to frontmatter. Go's types cover the rest.
func validateDefinition(def schema.Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return errors.New("intent definition without a name")
	}
	for _, ent := range def.Required {
		if strings.TrimSpace(ent.Key) == "" {
			return fmt.Errorf("intent '%s': entity missing key", def.Name)
		}
	}
	for _, ent := range def.Optional {
		if strings.TrimSpace(ent.Key) == "" {
			return fmt.Errorf("intent '%s': entity missing key", def.Name)
		}
		if ent.Default == nil || ent.Type == nil {
			continue
		}
		if err := ent.Type.Validate(ent.Default); err != nil {
			return fmt.Errorf("intent '%s': default for '%s' does not satisfy %s: %v", def.Name, ent.Key, ent.Type.Name(), err)
		}
	}
	return nil
}

// Dispatch runs one full turn: the utterance goes to the model, the reply is
// parsed and validated, and the matching provider runs. It never returns an
// error; every failure mode is folded into the Result. An empty sessionID
// targets the default session.
func (a *Assistant) Dispatch(ctx context.Context, sessionID, utterance string) domain.Result {
	return a.dispatcher.Dispatch(ctx, a.session(sessionID), utterance)
}

// Execute runs a pre-built command through validation and dispatch, skipping
// the language model.
func (a *Assistant) Execute(ctx context.Context, sessionID, intent string, entities map[string]any) domain.Result {
	cmd := domain.Command{Name: intent, Entities: entities}
	return a.dispatcher.Execute(ctx, a.session(sessionID), cmd)
}

// Register adds or replaces the provider for an intent name.
func (a *Assistant) Register(name string, p ports.Provider) {
	a.registry.Register(name, p)
}

// RegisterFunc registers a plain function as a provider.
func (a *Assistant) RegisterFunc(name string, fn ports.ProviderFunc) {
	a.registry.RegisterFunc(name, fn)
}

// Schema returns the intent schema in use.
func (a *Assistant) Schema() *schema.Schema {
	return a.schema
}

// Sessions returns the session manager for inspection and maintenance.
func (a *Assistant) Sessions() *session.Manager {
	return a.sessions
}

// Close releases the session store when it holds external connections
// (the Redis store does). The memory store makes this a no-op.
func (a *Assistant) Close() error {
	if closer, ok := a.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SystemPrompt returns the instruction block sent with every completion.
// Useful for prompt debugging.
func (a *Assistant) SystemPrompt() string {
	return a.dispatcher.SystemPrompt()
}

func (a *Assistant) session(id string) string {
	if id == "" {
		return a.defaultSession
	}
	return id
}
