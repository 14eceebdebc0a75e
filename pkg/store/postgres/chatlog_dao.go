package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/store"
)

var _ models.TurnLogStore = &ChatLogDAO{}

// ChatLogDAO is the append-only turn log.
type ChatLogDAO struct {
	db *bun.DB
}

func NewChatLogDAO(db *bun.DB) *ChatLogDAO {
	return &ChatLogDAO{db: db}
}

func (dao *ChatLogDAO) WriteTurn(ctx context.Context, turn *models.ChatTurn) error {
	pgTurn := ChatLogSchema{
		SessionID:  turn.SessionID,
		UserID:     turn.UserID,
		Input:      turn.Input,
		Response:   turn.Response,
		IntentTag:  turn.IntentTag,
		Confidence: turn.Confidence,
		Context:    turn.Context,
		CreatedAt:  turn.CreatedAt,
	}

	if _, err := dao.db.NewInsert().Model(&pgTurn).Exec(ctx); err != nil {
		return store.NewStorageError("failed to write chat turn", err)
	}
	return nil
}

// HighConfidenceInputs returns the distinct (intent, input) pairs resolved at
// or above the threshold. Clarification turns are never harvested.
func (dao *ChatLogDAO) HighConfidenceInputs(
	ctx context.Context,
	threshold float64,
) (map[string][]string, error) {
	var rows []struct {
		IntentTag string `bun:"intent_tag"`
		Input     string `bun:"input"`
	}

	err := dao.db.NewSelect().
		Model((*ChatLogSchema)(nil)).
		ColumnExpr("DISTINCT intent_tag, input").
		Where("confidence >= ?", threshold).
		Where("intent_tag != ?", models.IntentFallback).
		Scan(ctx, &rows)
	if err != nil {
		return nil, store.NewStorageError("failed to read high-confidence inputs", err)
	}

	inputs := make(map[string][]string, len(rows))
	for _, row := range rows {
		inputs[row.IntentTag] = append(inputs[row.IntentTag], row.Input)
	}
	return inputs, nil
}
