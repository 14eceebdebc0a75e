package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/store"
)

var _ models.RetrainHistoryStore = &RetrainHistoryDAO{}

// RetrainHistoryDAO records successful retrains. Only the latest entry
// matters for the delta decision.
type RetrainHistoryDAO struct {
	db *bun.DB
}

func NewRetrainHistoryDAO(db *bun.DB) *RetrainHistoryDAO {
	return &RetrainHistoryDAO{db: db}
}

func (dao *RetrainHistoryDAO) WriteEntry(ctx context.Context, entry *models.RetrainRecord) error {
	pgEntry := RetrainHistorySchema{
		TotalPatternCount: entry.TotalPatternCount,
		CreatedAt:         entry.CreatedAt,
	}

	if _, err := dao.db.NewInsert().Model(&pgEntry).Exec(ctx); err != nil {
		return store.NewStorageError("failed to write retrain entry", err)
	}
	return nil
}

func (dao *RetrainHistoryDAO) ReadLatest(ctx context.Context) (*models.RetrainRecord, error) {
	var pgEntry RetrainHistorySchema
	err := dao.db.NewSelect().
		Model(&pgEntry).
		Order("id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, store.NewStorageError("failed to read retrain history", err)
	}

	return &models.RetrainRecord{
		TotalPatternCount: pgEntry.TotalPatternCount,
		CreatedAt:         pgEntry.CreatedAt,
	}, nil
}
