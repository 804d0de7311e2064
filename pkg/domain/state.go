package domain

import "time"

// DefaultHistoryLimit bounds the exchanges kept per session when no explicit
// limit is configured.
const DefaultHistoryLimit = 20

// State is the persisted conversation state for one session. It is mutated only
// by the dispatcher, under the session manager's lock (single-writer-per-turn).
type State struct {
	// SessionID identifies the owning session.
	SessionID string `json:"session_id"`

	// Turn is a monotonically increasing sequence number, bumped when a turn
	// begins. Commits guard on it so a stale in-flight turn never overwrites
	// state a newer turn already owns.
	Turn int64 `json:"turn"`

	// Pending holds the partial intent awaiting one clarification answer, if any.
	Pending *Clarification `json:"pending,omitempty"`

	// History is a bounded ring of completed exchanges, newest last.
	History []Exchange `json:"history,omitempty"`

	// Sealed is an opaque payload used by storage middleware (e.g. encryption
	// envelopes). Empty in plain states.
	Sealed string `json:"sealed,omitempty"`

	// UpdatedAt is the wall-clock time of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clarification is a partial intent parked for exactly one follow-up turn.
type Clarification struct {
	Intent     string         `json:"intent"`
	Entities   map[string]any `json:"entities,omitempty"`
	MissingKey string         `json:"missing_key"`
	AskedTurn  int64          `json:"asked_turn"`
}

// Exchange records one completed turn for inspection and debugging.
type Exchange struct {
	Turn      int64       `json:"turn"`
	Utterance string      `json:"utterance"`
	Intent    string      `json:"intent,omitempty"`
	Kind      FailureKind `json:"kind,omitempty"`
	Response  string      `json:"response"`
	At        time.Time   `json:"at"`
}

// NewState creates a clean state for a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		UpdatedAt: time.Now().UTC(),
	}
}

// Remember appends an exchange, dropping the oldest entries beyond limit.
// A limit of zero or less applies DefaultHistoryLimit.
func (s *State) Remember(e Exchange, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s.History = append(s.History, e)
	if over := len(s.History) - limit; over > 0 {
		s.History = append(s.History[:0:0], s.History[over:]...)
	}
}

// Clone returns a deep copy. Stores persist copies so callers can keep mutating
// their own instance without aliasing stored state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	if s.Pending != nil {
		pending := *s.Pending
		if s.Pending.Entities != nil {
			pending.Entities = make(map[string]any, len(s.Pending.Entities))
			for k, v := range s.Pending.Entities {
				pending.Entities[k] = v
			}
		}
		out.Pending = &pending
	}
	if s.History != nil {
		out.History = append([]Exchange(nil), s.History...)
	}
	return &out
}
