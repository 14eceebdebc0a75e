package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type FeedbackLabel string

const (
	FeedbackPositive FeedbackLabel = "positive"
	FeedbackNegative FeedbackLabel = "negative"
)

// FeedbackRecord is a correction candidate: either an explicit negative
// reaction or a low-confidence turn. SuggestedIntent is nil when pattern
// triage found no sufficiently close intent.
type FeedbackRecord struct {
	UUID            uuid.UUID     `json:"uuid"`
	UserInput       string        `json:"user_input"`
	BotResponse     string        `json:"bot_response"`
	Label           FeedbackLabel `json:"label"`
	PredictedIntent string        `json:"predicted_intent"`
	SuggestedIntent *string       `json:"suggested_intent"`
	CorrectIntent   string        `json:"correct_intent,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// TargetIntent is the tag a merge should attach the input to: an explicit
// admin correction wins, then pattern triage, then the original prediction.
func (r *FeedbackRecord) TargetIntent() string {
	if r.CorrectIntent != "" {
		return r.CorrectIntent
	}
	if r.SuggestedIntent != nil && *r.SuggestedIntent != "" {
		return *r.SuggestedIntent
	}
	return r.PredictedIntent
}

// SuggestionBatch maps intent tags to candidate patterns. Consumed
// destructively by the corpus merger.
type SuggestionBatch map[string][]string

// Add appends a candidate pattern for the tag.
func (b SuggestionBatch) Add(tag, pattern string) {
	b[tag] = append(b[tag], pattern)
}

// FeedbackStore persists correction candidates until they are merged.
type FeedbackStore interface {
	WriteFeedback(ctx context.Context, record *FeedbackRecord) error
	ReadPending(ctx context.Context) ([]FeedbackRecord, error)
	SetCorrectIntent(ctx context.Context, userInput, correctIntent string) error
	Delete(ctx context.Context, ids []uuid.UUID) error
}
