package learning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

// Merger folds pending feedback and high-confidence turns into the corpus.
// Merging is idempotent: the corpus deduplicates verbatim patterns, so
// reprocessing a batch after a crash between merge and delete cannot grow
// the corpus twice.
type Merger struct {
	cfg      *config.Config
	corpus   models.CorpusStore
	feedback models.FeedbackStore
	turnLog  models.TurnLogStore
}

func NewMerger(cfg *config.Config, corpus models.CorpusStore, feedback models.FeedbackStore, turnLog models.TurnLogStore) *Merger {
	return &Merger{
		cfg:      cfg,
		corpus:   corpus,
		feedback: feedback,
		turnLog:  turnLog,
	}
}

// Merge consumes all pending feedback records plus harvested high-confidence
// inputs, appends them as patterns to their target intents and deletes the
// consumed records. Returns the number of patterns actually added.
func (m *Merger) Merge(ctx context.Context) (int, error) {
	pending, err := m.feedback.ReadPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read pending feedback: %w", err)
	}

	batch := models.SuggestionBatch{}
	consumed := make([]uuid.UUID, 0, len(pending))
	for _, record := range pending {
		tag := record.TargetIntent()
		if tag != "" && tag != models.IntentFallback {
			batch.Add(tag, record.UserInput)
		}
		consumed = append(consumed, record.UUID)
	}

	if m.turnLog != nil {
		harvested, err := m.turnLog.HighConfidenceInputs(ctx, m.cfg.Learning.HarvestConfidence)
		if err != nil {
			log.Warnf("high-confidence harvest failed, merging feedback only: %v", err)
		} else {
			for tag, inputs := range harvested {
				if tag == models.IntentFallback {
					continue
				}
				for _, input := range inputs {
					batch.Add(tag, input)
				}
			}
		}
	}

	added := 0
	for tag, patterns := range batch {
		for _, pattern := range patterns {
			ok, err := m.corpus.AddPattern(tag, pattern)
			if err != nil {
				return added, fmt.Errorf("failed to merge pattern into %s: %w", tag, err)
			}
			if ok {
				added++
			}
		}
	}

	// Delete only after the merge landed; a crash in between is repaired by
	// the dedup no-op on the next run.
	if len(consumed) > 0 {
		if err := m.feedback.Delete(ctx, consumed); err != nil {
			return added, fmt.Errorf("failed to delete consumed feedback: %w", err)
		}
	}

	log.Infof("corpus merge complete: %d records consumed, %d patterns added", len(consumed), added)
	return added, nil
}
