package models

import (
	"github.com/tamnhu11204/project-chatbot/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Config *config.Config

	Classifier Classifier
	Trainer    Trainer
	Catalog    BookCatalog
	Notifier   AdminNotifier

	Corpus   CorpusStore
	Contexts ContextStore

	TurnLog        TurnLogStore
	Feedback       FeedbackStore
	RetrainHistory RetrainHistoryStore

	TaskRouter    TaskRouter
	TaskPublisher TaskPublisher
}
