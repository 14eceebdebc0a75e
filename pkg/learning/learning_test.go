package learning

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/corpus"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Learning: config.LearningConfig{
			FeedbackLog:       config.DefaultFeedbackLog,
			SuggestionMatch:   config.DefaultSuggestionMatch,
			HarvestConfidence: config.DefaultHarvestConfidence,
			RetrainDelta:      config.DefaultRetrainDelta,
			MinPatternLength:  config.DefaultMinPatternLength,
		},
	}
}

func newTestCorpusStore(t *testing.T) *corpus.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intents.json")
	data, err := json.Marshal(&models.IntentCorpus{
		Intents: []models.Intent{
			{
				Tag:       models.IntentGreeting,
				Patterns:  []string{"chào shop", "xin chào"},
				Responses: []string{"Chào bạn!"},
			},
			{
				Tag:       models.IntentFindBook,
				Patterns:  []string{"tìm sách"},
				Responses: []string{"Bạn muốn tìm sách gì?"},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store, err := corpus.NewStore(path, config.DefaultMinPatternLength)
	require.NoError(t, err)
	return store
}

type memFeedbackStore struct {
	records []models.FeedbackRecord
}

func (s *memFeedbackStore) WriteFeedback(_ context.Context, record *models.FeedbackRecord) error {
	s.records = append(s.records, *record)
	return nil
}

func (s *memFeedbackStore) ReadPending(_ context.Context) ([]models.FeedbackRecord, error) {
	pending := make([]models.FeedbackRecord, len(s.records))
	copy(pending, s.records)
	return pending, nil
}

func (s *memFeedbackStore) SetCorrectIntent(_ context.Context, userInput, correctIntent string) error {
	for i := range s.records {
		if s.records[i].UserInput == userInput {
			s.records[i].CorrectIntent = correctIntent
		}
	}
	return nil
}

func (s *memFeedbackStore) Delete(_ context.Context, ids []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.records[:0]
	for _, record := range s.records {
		if !drop[record.UUID] {
			kept = append(kept, record)
		}
	}
	s.records = kept
	return nil
}

type memTurnLog struct {
	turns     []models.ChatTurn
	harvested map[string][]string
}

func (s *memTurnLog) WriteTurn(_ context.Context, turn *models.ChatTurn) error {
	s.turns = append(s.turns, *turn)
	return nil
}

func (s *memTurnLog) HighConfidenceInputs(_ context.Context, _ float64) (map[string][]string, error) {
	return s.harvested, nil
}

type memHistoryStore struct {
	entries []models.RetrainRecord
}

func (s *memHistoryStore) WriteEntry(_ context.Context, entry *models.RetrainRecord) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memHistoryStore) ReadLatest(_ context.Context) (*models.RetrainRecord, error) {
	if len(s.entries) == 0 {
		return nil, nil
	}
	latest := s.entries[len(s.entries)-1]
	return &latest, nil
}
