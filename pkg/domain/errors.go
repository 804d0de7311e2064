package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrStaleTurn is returned when a commit loses the turn-sequence race to a newer turn.
var ErrStaleTurn = errors.New("stale turn")

// ErrNoCompleter is returned when dispatch requires an LLM call but no completer
// is configured.
var ErrNoCompleter = errors.New("no completer configured")
