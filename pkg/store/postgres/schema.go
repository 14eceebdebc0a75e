// Package postgres persists the chatbot's durable state: the chat turn log,
// pending feedback and the retrain history.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

type ChatLogSchema struct {
	bun.BaseModel `bun:"table:chat_log,alias:cl"`

	UUID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	// ID orders turns created in the same instant.
	ID         int64                 `bun:",autoincrement"`
	CreatedAt  time.Time             `bun:"type:timestamptz,notnull,default:current_timestamp"`
	UpdatedAt  time.Time             `bun:"type:timestamptz,nullzero,default:current_timestamp"`
	SessionID  string                `bun:",notnull"`
	UserID     string                `bun:",nullzero"`
	Input      string                `bun:",notnull"`
	Response   string                `bun:",nullzero"`
	IntentTag  string                `bun:",notnull"`
	Confidence float64               `bun:",notnull"`
	Context    models.SessionContext `bun:"type:jsonb,nullzero"`
}

var _ bun.BeforeAppendModelHook = (*ChatLogSchema)(nil)

func (s *ChatLogSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

type FeedbackSchema struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	UUID            uuid.UUID `bun:",pk,type:uuid"`
	ID              int64     `bun:",autoincrement"`
	CreatedAt       time.Time `bun:"type:timestamptz,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"type:timestamptz,nullzero,default:current_timestamp"`
	UserInput       string    `bun:",notnull"`
	BotResponse     string    `bun:",nullzero"`
	Label           string    `bun:",notnull"`
	PredictedIntent string    `bun:",nullzero"`
	SuggestedIntent *string   `bun:",nullzero"`
	CorrectIntent   string    `bun:",nullzero"`
}

var _ bun.BeforeAppendModelHook = (*FeedbackSchema)(nil)

func (s *FeedbackSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

type RetrainHistorySchema struct {
	bun.BaseModel `bun:"table:retrain_history,alias:rh"`

	UUID              uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	ID                int64     `bun:",autoincrement"`
	CreatedAt         time.Time `bun:"type:timestamptz,notnull,default:current_timestamp"`
	TotalPatternCount int       `bun:",notnull"`
}

var tableList = []any{
	&ChatLogSchema{},
	&FeedbackSchema{},
	&RetrainHistorySchema{},
}

// indexes speed up the harvest query and the correction lookup.
var indexes = []struct {
	table   string
	columns []string
}{
	{table: "chat_log", columns: []string{"intent_tag", "confidence"}},
	{table: "chat_log", columns: []string{"session_id"}},
	{table: "feedback", columns: []string{"user_input"}},
}

// CreateSchema creates the chatbot tables and indexes if they do not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, schema := range tableList {
		if _, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %T: %w", schema, err)
		}
	}

	for _, index := range indexes {
		if _, err := db.NewCreateIndex().
			Table(index.table).
			Index(fmt.Sprintf("ix_%s_%s", index.table, index.columns[0])).
			Column(index.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", index.table, err)
		}
	}

	log.Debug("postgres schema ready")
	return nil
}

// NewPostgresConn creates a new bun.DB connection using the configured DSN.
// The connection pool is sized from the number of PROCs available.
func NewPostgresConn(cfg *config.Config) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.Store.Postgres.DSN),
			pgdriver.WithReadTimeout(2*time.Minute),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return db, nil
}

// NewPostgresConnForQueue returns a plain database/sql connection for the
// task queue. The queue subscriber manages its own transactions and must not
// share bun's connection settings.
func NewPostgresConnForQueue(cfg *config.Config) (*sql.DB, error) {
	return sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.Store.Postgres.DSN),
		),
	), nil
}
