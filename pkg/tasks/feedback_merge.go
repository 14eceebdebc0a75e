package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tamnhu11204/project-chatbot/pkg/learning"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var _ models.Task = &FeedbackMergeTask{}

// FeedbackMergeTask consumes pending feedback into the corpus and arms the
// retrain trigger when the merge grew the corpus past the delta.
type FeedbackMergeTask struct {
	BaseTask
	merger    *learning.Merger
	retrainer *learning.Retrainer
}

func NewFeedbackMergeTask(appState *models.AppState) *FeedbackMergeTask {
	return &FeedbackMergeTask{
		BaseTask: BaseTask{appState: appState},
		merger: learning.NewMerger(
			appState.Config,
			appState.Corpus,
			appState.Feedback,
			appState.TurnLog,
		),
		retrainer: learning.NewRetrainer(
			appState.Config,
			appState.Corpus,
			appState.Trainer,
			appState.Classifier,
			appState.RetrainHistory,
		),
	}
}

func (t *FeedbackMergeTask) Execute(ctx context.Context, msg *message.Message) error {
	var task models.MergeTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		return fmt.Errorf("failed to unmarshal merge task payload: %w", err)
	}

	added, err := t.merger.Merge(ctx)
	if err != nil {
		return fmt.Errorf("feedback merge failed: %w", err)
	}
	log.Infof("feedback merge (%s): %d patterns added", task.Reason, added)

	should, err := t.retrainer.ShouldRetrain(ctx)
	if err != nil {
		return fmt.Errorf("retrain check failed: %w", err)
	}
	if !should {
		return nil
	}

	return t.appState.TaskPublisher.Publish(
		models.CorpusRetrainTopic,
		map[string]string{"reason": task.Reason},
		models.RetrainTask{PatternCount: t.appState.Corpus.CountPatterns()},
	)
}

func (t *FeedbackMergeTask) HandleError(err error) {
	log.Errorf("FeedbackMergeTask error: %s", err)
}
