package models

import (
	"context"
	"time"
)

// SessionContext carries slots across the turns of one conversation. Fields
// are zero-valued rather than absent; a merge overwrites only non-zero
// fields of the update (last-write-wins).
type SessionContext struct {
	BookName   string    `json:"book_name,omitempty"`
	BookID     string    `json:"book_id,omitempty"`
	Price      float64   `json:"price,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	LastIntent string    `json:"last_intent,omitempty"`
	LastInput  string    `json:"last_input,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// IsZero reports whether no slot has ever been set for this context.
func (c SessionContext) IsZero() bool {
	return c == SessionContext{}
}

// ContextStore holds per-session accumulating state. Reads for different
// sessions never cross-talk; concurrent merges to the same session are
// serialized with last-write-wins semantics.
type ContextStore interface {
	// Get returns the latest context for the session, or a zero value.
	Get(sessionID string) SessionContext
	// Merge shallow-merges the non-zero fields of update into the stored
	// context and returns the result.
	Merge(sessionID string, update SessionContext) SessionContext
	// Purge drops contexts idle since before the cutoff and reports how
	// many were removed.
	Purge(olderThan time.Time) int
}

// Utterance is one inbound user message, immutable once constructed.
type Utterance struct {
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	ReceivedAt time.Time `json:"received_at"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
}

// ChatTurn is the append-only record of one resolved turn.
type ChatTurn struct {
	SessionID  string         `json:"session_id"`
	UserID     string         `json:"user_id"`
	Input      string         `json:"input"`
	Response   string         `json:"response"`
	IntentTag  string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Context    SessionContext `json:"context"`
	CreatedAt  time.Time      `json:"created_at"`
}

// TurnLogStore is the append-only log of resolved turns.
type TurnLogStore interface {
	WriteTurn(ctx context.Context, turn *ChatTurn) error
	// HighConfidenceInputs returns distinct (intent, input) pairs whose
	// confidence was at or above the threshold, for corpus harvesting.
	HighConfidenceInputs(ctx context.Context, threshold float64) (map[string][]string, error)
}
