package models

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

type TaskTopic string

const (
	FeedbackMergeTopic TaskTopic = "feedback_merge"
	CorpusRetrainTopic TaskTopic = "corpus_retrain"
)

type Task interface {
	Execute(ctx context.Context, event *message.Message) error
	HandleError(err error)
}

type TaskRouter interface {
	Run(ctx context.Context) error
	AddTask(ctx context.Context, name string, taskType TaskTopic, task Task)
	IsRunning() bool
	Close() error
}

type TaskPublisher interface {
	Publish(taskType TaskTopic, metadata map[string]string, payload any) error
	Close() error
}

// MergeTask asks the corpus merger to consume pending feedback and
// suggestions, and to check the retrain trigger afterwards.
type MergeTask struct {
	Reason string `json:"reason"`
}

// RetrainTask asks the trainer to produce a new artifact. Published by the
// merger when the retrain delta is reached.
type RetrainTask struct {
	PatternCount int `json:"pattern_count"`
}
