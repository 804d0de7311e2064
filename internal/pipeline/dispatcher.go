package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/valet/internal/logging"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/ports"
	"github.com/aretw0/valet/pkg/registry"
	"github.com/aretw0/valet/pkg/schema"
	"github.com/aretw0/valet/pkg/session"
)

// DefaultLLMTimeout bounds a single completion call.
const DefaultLLMTimeout = 30 * time.Second

// User-facing messages for the routine failure branches. Exported so surfaces
// (HTTP, MCP, TUI) and their tests stay in sync with dispatch.
const (
	MsgCannotUnderstand = "Sorry, I couldn't understand that. Could you try rephrasing?"
	MsgUnknownIntent    = "I don't know how to do that yet."
	MsgTooLong          = "That command is too long. Could you shorten it?"
	MsgLLMUnavailable   = "I'm having trouble reaching my language model right now. Please try again in a moment."
	MsgNoCompleter      = "No language model is configured."
)

// Dispatcher turns one utterance into one result: sanitize, complete, parse,
// validate, resolve, execute. Failures at every stage collapse into a uniform
// domain.Result; nothing a model or provider does can propagate as a fault.
// The dispatcher itself is stateless across turns; conversation memory lives
// behind the session manager.
type Dispatcher struct {
	schema    *schema.Schema
	registry  *registry.Registry
	sessions  *session.Manager
	completer ports.Completer
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	timeout   time.Duration
	history   int
	system    string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCompleter sets the language model client. Without one, Dispatch reports
// the model unavailable while Execute keeps working.
func WithCompleter(c ports.Completer) Option {
	return func(d *Dispatcher) { d.completer = c }
}

// WithHooks installs lifecycle callbacks (metrics, tracing).
func WithHooks(h domain.LifecycleHooks) Option {
	return func(d *Dispatcher) { d.hooks = h }
}

// WithLogger sets the dispatch logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLLMTimeout bounds each completion call. Zero disables the bound.
func WithLLMTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithHistoryLimit caps how many exchanges a session remembers.
func WithHistoryLimit(n int) Option {
	return func(d *Dispatcher) { d.history = n }
}

// New creates a Dispatcher over a schema, a provider registry and a session
// manager. The system prompt is derived from the schema once, here.
func New(s *schema.Schema, reg *registry.Registry, sessions *session.Manager, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		schema:   s,
		registry: reg,
		sessions: sessions,
		logger:   logging.NewNop(),
		timeout:  DefaultLLMTimeout,
		history:  domain.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.system = BuildSystemPrompt(s)
	return d
}

// SystemPrompt returns the instruction block sent with every completion.
func (d *Dispatcher) SystemPrompt() string {
	return d.system
}

// Dispatch runs one full turn for an utterance. It never returns an error;
// every failure mode is folded into the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID, utterance string) domain.Result {
	started := time.Now()

	clean, err := SanitizeUtterance(utterance)
	if err != nil {
		d.logger.Debug("utterance rejected", "session", sessionID, "err", err)
		if errors.Is(err, ErrInputTooLarge) {
			return domain.Fail(domain.FailureParse, MsgTooLong)
		}
		return domain.Fail(domain.FailureParse, MsgCannotUnderstand)
	}

	state, seq, stateless := d.begin(ctx, sessionID)
	d.emitTurn(ctx, domain.EventTurnStart, sessionID, seq, clean, "", domain.Result{}, 0)

	var (
		result domain.Result
		clar   *domain.Clarification
		intent string
	)
	text, unavailable := d.complete(ctx, sessionID, seq, clean)
	if unavailable != nil {
		result = *unavailable
	} else {
		cmd, parsed := Parse(text)
		if state.Pending != nil {
			cmd, parsed = d.applyPending(state.Pending, cmd, parsed, clean)
		}
		outcome := domain.Malformed(text)
		if parsed {
			outcome = Validate(d.schema, cmd)
		}
		result, clar, intent = d.finish(ctx, sessionID, seq, outcome, cmd)
	}

	if !stateless {
		d.commit(ctx, sessionID, seq, clean, intent, result, clar)
	}
	d.emitTurn(ctx, domain.EventTurnEnd, sessionID, seq, clean, intent, result, time.Since(started))
	return result
}

// Execute runs a pre-built command through validation and dispatch, skipping
// the language model. MCP per-intent tools and deterministic callers enter
// here.
func (d *Dispatcher) Execute(ctx context.Context, sessionID string, cmd domain.Command) domain.Result {
	started := time.Now()

	state, seq, stateless := d.begin(ctx, sessionID)
	d.emitTurn(ctx, domain.EventTurnStart, sessionID, seq, "", "", domain.Result{}, 0)

	candidate, parsed := cmd, true
	if state.Pending != nil {
		candidate, parsed = d.applyPending(state.Pending, cmd, true, "")
	}
	outcome := domain.Malformed("")
	if parsed {
		outcome = Validate(d.schema, candidate)
	}
	result, clar, intent := d.finish(ctx, sessionID, seq, outcome, candidate)

	if !stateless {
		d.commit(ctx, sessionID, seq, "", intent, result, clar)
	}
	d.emitTurn(ctx, domain.EventTurnEnd, sessionID, seq, "", intent, result, time.Since(started))
	return result
}

// begin opens the turn and snapshots session state. Store failures degrade to
// a stateless turn: conversation memory is best-effort, dispatch is not.
func (d *Dispatcher) begin(ctx context.Context, sessionID string) (*domain.State, int64, bool) {
	state, seq, err := d.sessions.Begin(ctx, sessionID)
	if err != nil {
		d.logger.Warn("session unavailable, dispatching stateless", "session", sessionID, "err", err)
		state = domain.NewState(sessionID)
		state.Turn = 1
		return state, state.Turn, true
	}
	return state, seq, false
}

// complete sends the utterance to the model under the configured timeout.
// A non-nil second return is the turn's terminal LLMUnavailable result.
func (d *Dispatcher) complete(ctx context.Context, sessionID string, seq int64, utterance string) (string, *domain.Result) {
	if d.completer == nil {
		d.logger.Error("completion failed", "session", sessionID, "err", domain.ErrNoCompleter)
		result := domain.Fail(domain.FailureLLMUnavailable, MsgNoCompleter)
		return "", &result
	}

	cctx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := d.completer.Complete(cctx, ports.Prompt{System: d.system, User: utterance})
	d.emitLLM(ctx, sessionID, seq, time.Since(started), err != nil)
	if err != nil {
		d.logger.Error("completion failed", "session", sessionID, "err", err)
		result := domain.Fail(domain.FailureLLMUnavailable, MsgLLMUnavailable)
		return "", &result
	}
	return text, nil
}

// applyPending folds a pending clarification into the turn's candidate. The
// pending entry is consumed either way: merged when the turn continues the
// same intent, answered by the raw utterance when the model produced nothing
// usable, dropped when a different known intent arrives.
func (d *Dispatcher) applyPending(pending *domain.Clarification, cmd domain.Command, parsed bool, utterance string) (domain.Command, bool) {
	if parsed && cmd.Name == pending.Intent {
		return domain.Command{Name: pending.Intent, Entities: mergeEntities(pending.Entities, cmd.Entities)}, true
	}
	if parsed && cmd.Name != "" && d.schema.IsKnown(cmd.Name) {
		return cmd, true
	}
	def, ok := d.schema.DefinitionFor(pending.Intent)
	if !ok || utterance == "" {
		return cmd, parsed
	}
	ent, _ := def.EntityFor(pending.MissingKey)
	answer := map[string]any{pending.MissingKey: coerceAnswer(ent, utterance)}
	return domain.Command{Name: pending.Intent, Entities: mergeEntities(pending.Entities, answer)}, true
}

// finish maps a validation outcome to the turn's result, invoking the
// provider on the valid path. The third return is the intent name recorded in
// history; the second is a clarification to persist, when one was asked.
func (d *Dispatcher) finish(ctx context.Context, sessionID string, seq int64, outcome domain.Outcome, candidate domain.Command) (domain.Result, *domain.Clarification, string) {
	switch outcome.Kind {
	case domain.OutcomeMalformed:
		d.logger.Debug("unparsable model response", "session", sessionID, "raw", snippet(outcome.RawText))
		return domain.Fail(domain.FailureParse, MsgCannotUnderstand), nil, ""

	case domain.OutcomeUnknownIntent:
		d.logger.Debug("unknown intent", "session", sessionID, "intent", outcome.RawName)
		return domain.Fail(domain.FailureUnknownIntent, MsgUnknownIntent), nil, outcome.RawName

	case domain.OutcomeMissingEntity:
		def, _ := d.schema.DefinitionFor(outcome.Intent)
		d.logger.Debug("clarification needed", "session", sessionID, "intent", outcome.Intent, "key", outcome.MissingKey)
		partial := compactEntities(candidate.Entities)
		delete(partial, outcome.MissingKey) // unusable; the next answer replaces it
		clar := &domain.Clarification{
			Intent:     outcome.Intent,
			Entities:   partial,
			MissingKey: outcome.MissingKey,
			AskedTurn:  seq,
		}
		return domain.Fail(domain.FailureNeedsClarification, def.PromptFor(outcome.MissingKey)), clar, outcome.Intent
	}

	cmd := outcome.Command
	provider, ok := d.registry.Resolve(cmd.Name)
	if !ok {
		d.logger.Debug("no provider registered", "session", sessionID, "intent", cmd.Name)
		message := fmt.Sprintf("I understood the intent as '%s', but I don't know how to do that yet.", cmd.Name)
		return domain.Fail(domain.FailureNotImplemented, message), nil, cmd.Name
	}

	d.emitProvider(ctx, domain.EventProviderCall, sessionID, seq, cmd.Name, 0, false)
	started := time.Now()
	text, err := d.invoke(ctx, provider, cmd)
	d.emitProvider(ctx, domain.EventProviderReturn, sessionID, seq, cmd.Name, time.Since(started), err != nil)
	if err != nil {
		var failure *domain.Failure
		if errors.As(err, &failure) {
			return failure.Result(), nil, cmd.Name
		}
		d.logger.Error("provider failed", "session", sessionID, "intent", cmd.Name, "err", err)
		return domain.Fail(domain.FailureProvider, fmt.Sprintf("Sorry, something went wrong while handling '%s'.", cmd.Name)), nil, cmd.Name
	}
	return domain.Succeed(text), nil, cmd.Name
}

// invoke calls the provider with panic recovery: a crashing provider must
// never take the pipeline down with it.
func (d *Dispatcher) invoke(ctx context.Context, provider ports.Provider, cmd domain.Command) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("provider panicked", "intent", cmd.Name, "panic", r, "stack", string(debug.Stack()))
			err = domain.Failf(domain.FailureProvider, "Sorry, something went wrong while handling '%s'.", cmd.Name)
		}
	}()
	return provider.Invoke(ctx, cmd.Entities)
}

// commit records the turn's exchange and clarification lifecycle. A stale
// sequence means a newer turn already began; its write wins and ours is
// dropped.
func (d *Dispatcher) commit(ctx context.Context, sessionID string, seq int64, utterance, intent string, result domain.Result, clar *domain.Clarification) {
	err := d.sessions.Commit(ctx, sessionID, seq, func(st *domain.State) {
		st.Pending = clar
		st.Remember(domain.Exchange{
			Turn:      seq,
			Utterance: utterance,
			Intent:    intent,
			Kind:      result.Kind,
			Response:  result.Text(),
			At:        time.Now(),
		}, d.history)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleTurn):
		d.logger.Debug("turn superseded, state not recorded", "session", sessionID, "turn", seq)
	default:
		d.logger.Warn("state commit failed", "session", sessionID, "turn", seq, "err", err)
	}
}

func (d *Dispatcher) emitTurn(ctx context.Context, typ domain.EventType, sessionID string, seq int64, utterance, intent string, result domain.Result, dur time.Duration) {
	fn := d.hooks.OnTurnStart
	if typ == domain.EventTurnEnd {
		fn = d.hooks.OnTurnEnd
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.TurnEvent{
		EventBase: eventBase(typ, sessionID, seq),
		Utterance: utterance,
		Intent:    intent,
		OK:        result.OK,
		Kind:      result.Kind,
		Duration:  dur,
	})
}

func (d *Dispatcher) emitLLM(ctx context.Context, sessionID string, seq int64, dur time.Duration, isErr bool) {
	if d.hooks.OnLLMReturn == nil {
		return
	}
	d.hooks.OnLLMReturn(ctx, &domain.LLMEvent{
		EventBase: eventBase(domain.EventLLMReturn, sessionID, seq),
		Duration:  dur,
		IsError:   isErr,
	})
}

func (d *Dispatcher) emitProvider(ctx context.Context, typ domain.EventType, sessionID string, seq int64, intent string, dur time.Duration, isErr bool) {
	fn := d.hooks.OnProviderCall
	if typ == domain.EventProviderReturn {
		fn = d.hooks.OnProviderReturn
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.ProviderEvent{
		EventBase: eventBase(typ, sessionID, seq),
		Intent:    intent,
		Duration:  dur,
		IsError:   isErr,
	})
}

func eventBase(typ domain.EventType, sessionID string, seq int64) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      typ,
		SessionID: sessionID,
		Turn:      seq,
	}
}

// coerceAnswer converts a bare textual answer ("75", "0.5", "yes") to the
// first representation the entity's declared type accepts. A trailing percent
// sign is understood on both the 0-100 and 0.0-1.0 scales.
func coerceAnswer(ent schema.Entity, raw string) any {
	text := strings.TrimSpace(raw)
	if ent.Type == nil {
		return text
	}

	trimmed := strings.TrimSuffix(text, "%")
	hadPercent := trimmed != text
	numeric := strings.TrimSpace(trimmed)

	var candidates []any
	if i, err := strconv.ParseInt(numeric, 10, 64); err == nil {
		candidates = append(candidates, i)
		if hadPercent {
			candidates = append(candidates, float64(i)/100)
		}
	} else if f, err := strconv.ParseFloat(numeric, 64); err == nil {
		candidates = append(candidates, f)
		if hadPercent {
			candidates = append(candidates, f/100)
		}
	}
	if b, err := strconv.ParseBool(text); err == nil {
		candidates = append(candidates, b)
	}
	candidates = append(candidates, text)

	for _, c := range candidates {
		if ent.Type.Validate(c) == nil {
			return c
		}
	}
	return text
}

func mergeEntities(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		if v != nil {
			out[k] = v
		}
	}
	for k, v := range overlay {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// compactEntities drops nil values so a stored clarification only carries
// usable answers.
func compactEntities(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
