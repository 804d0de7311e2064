package domain

import "fmt"

// FailureKind classifies why a dispatched turn failed.
type FailureKind string

const (
	// FailureLLMUnavailable covers network, timeout, and auth failures talking to the model.
	FailureLLMUnavailable FailureKind = "llm_unavailable"

	// FailureParse means the model output could not be turned into a candidate command.
	FailureParse FailureKind = "parse_error"

	// FailureUnknownIntent means the command was well-formed but names no known intent.
	FailureUnknownIntent FailureKind = "unknown_intent"

	// FailureNeedsClarification means a required entity is missing and a follow-up
	// question was asked. Recoverable on the next turn.
	FailureNeedsClarification FailureKind = "needs_clarification"

	// FailureNotImplemented means the intent is known to the schema but has no
	// registered provider.
	FailureNotImplemented FailureKind = "not_implemented"

	// FailureProvider means the capability provider failed or panicked while executing.
	FailureProvider FailureKind = "provider_error"
)

// Result is the uniform outcome of one dispatched turn. It is the sole contract
// crossing the dispatcher boundary; nothing propagates past it as a fault.
type Result struct {
	OK       bool        `json:"ok"`
	Response string      `json:"response,omitempty"`
	Kind     FailureKind `json:"kind,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// Succeed constructs a successful result carrying the provider's reply.
func Succeed(text string) Result {
	return Result{OK: true, Response: text}
}

// Fail constructs a failed result with a classification and a user-facing message.
func Fail(kind FailureKind, message string) Result {
	return Result{OK: false, Kind: kind, Message: message}
}

// Text returns the user-facing reply regardless of success or failure.
func (r Result) Text() string {
	if r.OK {
		return r.Response
	}
	return r.Message
}

// Failure is an error that carries a dispatch failure classification. Providers
// may return one to control the kind and message surfaced to the user; any other
// error is reported as FailureProvider with a generic message.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Failf builds a Failure with a formatted user-facing message.
func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// Result converts the failure into its Result form.
func (f *Failure) Result() Result {
	return Fail(f.Kind, f.Message)
}
