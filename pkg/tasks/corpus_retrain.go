package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tamnhu11204/project-chatbot/pkg/learning"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var _ models.Task = &CorpusRetrainTask{}

// CorpusRetrainTask trains a new classifier artifact from the current corpus
// and swaps it in. Single flight is enforced by the retrainer.
type CorpusRetrainTask struct {
	BaseTask
	retrainer *learning.Retrainer
}

func NewCorpusRetrainTask(appState *models.AppState) *CorpusRetrainTask {
	return &CorpusRetrainTask{
		BaseTask: BaseTask{appState: appState},
		retrainer: learning.NewRetrainer(
			appState.Config,
			appState.Corpus,
			appState.Trainer,
			appState.Classifier,
			appState.RetrainHistory,
		),
	}
}

func (t *CorpusRetrainTask) Execute(ctx context.Context, msg *message.Message) error {
	var task models.RetrainTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		return fmt.Errorf("failed to unmarshal retrain task payload: %w", err)
	}

	ran, err := t.retrainer.Retrain(ctx)
	if err != nil {
		return fmt.Errorf("retrain failed: %w", err)
	}
	if !ran {
		log.Debugf("retrain for %d patterns dropped, another retrain in flight", task.PatternCount)
	}
	return nil
}

func (t *CorpusRetrainTask) HandleError(err error) {
	log.Errorf("CorpusRetrainTask error: %s", err)
}
