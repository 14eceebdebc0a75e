package models

import (
	"context"
	"time"
)

// RetrainRecord marks a successful retrain. Only the latest entry matters
// for the delta decision.
type RetrainRecord struct {
	TotalPatternCount int       `json:"total_patterns"`
	CreatedAt         time.Time `json:"created_at"`
}

// RetrainHistoryStore is the growing sequence of successful retrains.
type RetrainHistoryStore interface {
	WriteEntry(ctx context.Context, entry *RetrainRecord) error
	// ReadLatest returns the most recent entry, or nil if none exists.
	ReadLatest(ctx context.Context) (*RetrainRecord, error)
}
