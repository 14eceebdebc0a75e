package learning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

// Retrainer decides when the classifier needs a new artifact and runs the
// retrain. Retrains are single flight: a trigger firing while one is in
// progress is dropped, not queued.
type Retrainer struct {
	cfg        *config.Config
	corpus     models.CorpusStore
	trainer    models.Trainer
	classifier models.Classifier
	history    models.RetrainHistoryStore

	mu sync.Mutex
}

func NewRetrainer(
	cfg *config.Config,
	corpus models.CorpusStore,
	trainer models.Trainer,
	classifier models.Classifier,
	history models.RetrainHistoryStore,
) *Retrainer {
	return &Retrainer{
		cfg:        cfg,
		corpus:     corpus,
		trainer:    trainer,
		classifier: classifier,
		history:    history,
	}
}

// ShouldRetrain reports whether the corpus has grown by at least the retrain
// delta since the last successful retrain. An empty history compares against
// zero, so a fresh deployment retrains once the corpus is large enough.
func (r *Retrainer) ShouldRetrain(ctx context.Context) (bool, error) {
	latest, err := r.history.ReadLatest(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read retrain history: %w", err)
	}

	baseline := 0
	if latest != nil {
		baseline = latest.TotalPatternCount
	}
	return r.corpus.CountPatterns()-baseline >= r.cfg.Learning.RetrainDelta, nil
}

// Retrain produces a new classifier artifact from the current corpus, swaps
// it in and records the successful run. A failed train or swap leaves the
// history untouched so the delta stays armed. Returns false when another
// retrain already holds the flight lock.
func (r *Retrainer) Retrain(ctx context.Context) (bool, error) {
	if !r.mu.TryLock() {
		log.Infof("retrain already in progress, dropping trigger")
		return false, nil
	}
	defer r.mu.Unlock()

	snapshot := r.corpus.Corpus()
	patternCount := snapshot.CountPatterns()
	log.Infof("retraining classifier on %d patterns", patternCount)

	artifact, err := r.trainer.Train(ctx, snapshot)
	if err != nil {
		return false, fmt.Errorf("training failed: %w", err)
	}
	if err := r.classifier.Reload(ctx, artifact); err != nil {
		return false, fmt.Errorf("failed to load new artifact %s: %w", artifact, err)
	}

	entry := &models.RetrainRecord{
		TotalPatternCount: patternCount,
		CreatedAt:         time.Now(),
	}
	if err := r.history.WriteEntry(ctx, entry); err != nil {
		return false, fmt.Errorf("failed to record retrain: %w", err)
	}

	log.Infof("classifier retrained: artifact %s, %d total patterns", artifact, patternCount)
	return true, nil
}
