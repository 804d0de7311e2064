package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurnStart      EventType = "turn_start"
	EventTurnEnd        EventType = "turn_end"
	EventLLMReturn      EventType = "llm_return"
	EventProviderCall   EventType = "provider_call"
	EventProviderReturn EventType = "provider_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Turn      int64     `json:"turn"`
}

// TurnEvent represents the start or end of one dispatched turn. Intent, OK,
// Kind and Duration are only meaningful on turn end.
type TurnEvent struct {
	EventBase
	Utterance string        `json:"utterance,omitempty"`
	Intent    string        `json:"intent,omitempty"`
	OK        bool          `json:"ok,omitempty"`
	Kind      FailureKind   `json:"kind,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// LLMEvent represents the completion of one model call.
type LLMEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
}

// ProviderEvent represents a capability provider invocation.
type ProviderEvent struct {
	EventBase
	Intent   string        `json:"intent"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for pipeline observability. Nil hooks are
// skipped; callbacks run synchronously on the turn's goroutine and must be fast.
type LifecycleHooks struct {
	OnTurnStart      func(context.Context, *TurnEvent)
	OnTurnEnd        func(context.Context, *TurnEvent)
	OnLLMReturn      func(context.Context, *LLMEvent)
	OnProviderCall   func(context.Context, *ProviderEvent)
	OnProviderReturn func(context.Context, *ProviderEvent)
}
