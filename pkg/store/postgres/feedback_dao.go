package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/store"
)

var _ models.FeedbackStore = &FeedbackDAO{}

// FeedbackDAO holds correction candidates until the merger consumes them.
type FeedbackDAO struct {
	db *bun.DB
}

func NewFeedbackDAO(db *bun.DB) *FeedbackDAO {
	return &FeedbackDAO{db: db}
}

func (dao *FeedbackDAO) WriteFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	pgRecord := FeedbackSchema{
		UUID:            record.UUID,
		UserInput:       record.UserInput,
		BotResponse:     record.BotResponse,
		Label:           string(record.Label),
		PredictedIntent: record.PredictedIntent,
		SuggestedIntent: record.SuggestedIntent,
		CorrectIntent:   record.CorrectIntent,
		CreatedAt:       record.CreatedAt,
	}

	if _, err := dao.db.NewInsert().Model(&pgRecord).Exec(ctx); err != nil {
		return store.NewStorageError("failed to write feedback", err)
	}
	return nil
}

func (dao *FeedbackDAO) ReadPending(ctx context.Context) ([]models.FeedbackRecord, error) {
	var pgRecords []FeedbackSchema
	err := dao.db.NewSelect().
		Model(&pgRecords).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to read pending feedback", err)
	}

	records := make([]models.FeedbackRecord, len(pgRecords))
	for i, pgRecord := range pgRecords {
		records[i] = models.FeedbackRecord{
			UUID:            pgRecord.UUID,
			UserInput:       pgRecord.UserInput,
			BotResponse:     pgRecord.BotResponse,
			Label:           models.FeedbackLabel(pgRecord.Label),
			PredictedIntent: pgRecord.PredictedIntent,
			SuggestedIntent: pgRecord.SuggestedIntent,
			CorrectIntent:   pgRecord.CorrectIntent,
			CreatedAt:       pgRecord.CreatedAt,
		}
	}
	return records, nil
}

// SetCorrectIntent attaches an admin correction to every pending record for
// the given input.
func (dao *FeedbackDAO) SetCorrectIntent(ctx context.Context, userInput, correctIntent string) error {
	result, err := dao.db.NewUpdate().
		Model((*FeedbackSchema)(nil)).
		Set("correct_intent = ?", correctIntent).
		Where("user_input = ?", userInput).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to set correct intent", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStorageError("failed to set correct intent", err)
	}
	if rows == 0 {
		return models.NewNotFoundError("feedback for input")
	}
	return nil
}

func (dao *FeedbackDAO) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := dao.db.NewDelete().
		Model((*FeedbackSchema)(nil)).
		Where("uuid IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to delete feedback", err)
	}
	return nil
}
