package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/bookish"
	"github.com/tamnhu11204/project-chatbot/pkg/bot"
	"github.com/tamnhu11204/project-chatbot/pkg/corpus"
	"github.com/tamnhu11204/project-chatbot/pkg/learning"
	"github.com/tamnhu11204/project-chatbot/pkg/llms"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/server"
	"github.com/tamnhu11204/project-chatbot/pkg/store/postgres"
	"github.com/tamnhu11204/project-chatbot/pkg/tasks"
)

const (
	ErrStoreTypeNotSet   = "store.type must be set"
	ErrPostgresDSNNotSet = "store.postgres.dsn must be set"
	StoreTypePostgres    = "postgres"
)

// run is the entrypoint for the chatbot server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring chatbot: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting chatbot server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	collector := learning.NewCollector(cfg, appState.Corpus, appState.Feedback)
	resolver := bot.NewResolver(appState, collector)

	srv := server.Create(appState, resolver, collector)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV, loads the
// intent corpus, connects the store and starts the task router.
func NewAppState(cfg *config.Config) *models.AppState {
	nlpClient := llms.NewNLPClient(cfg)
	appState := &models.AppState{
		Config:     cfg,
		Classifier: nlpClient,
		Trainer:    nlpClient,
		Catalog:    bookish.NewCatalog(cfg),
		Notifier:   bookish.NewNotifier(cfg),
		Contexts:   bot.NewContextStore(),
	}

	initializeCorpus(appState)
	db := initializeStore(appState)
	initializeTaskRouter(context.Background(), appState)
	setupSignalHandler(appState, db)
	setupPurgeProcessor(context.Background(), appState)

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		dump, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Println(string(dump))
		os.Exit(0)
	}
}

// initializeCorpus loads the intent corpus from its backing file.
func initializeCorpus(appState *models.AppState) {
	if appState.Config.Corpus.Path == "" {
		log.Fatal("corpus.path must be set")
	}

	corpusStore, err := corpus.NewStore(
		appState.Config.Corpus.Path,
		appState.Config.Learning.MinPatternLength,
	)
	if err != nil {
		log.Fatalf("Failed to load intent corpus: %v", err)
	}
	appState.Corpus = corpusStore

	log.Infof("Loaded %d corpus patterns from %s",
		corpusStore.CountPatterns(), appState.Config.Corpus.Path)
}

// initializeStore connects the persistence layer based on the config file / ENV
func initializeStore(appState *models.AppState) *bun.DB {
	if appState.Config.Store.Type == "" {
		log.Fatal(ErrStoreTypeNotSet)
	}

	switch appState.Config.Store.Type {
	case StoreTypePostgres:
		if appState.Config.Store.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(appState.Config)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if appState.Config.Log.Level == "debug" {
			pgDebugLogging(db)
		}
		if err := postgres.CreateSchema(context.Background(), db); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}
		appState.TurnLog = postgres.NewChatLogDAO(db)
		appState.Feedback = postgres.NewFeedbackDAO(db)
		appState.RetrainHistory = postgres.NewRetrainHistoryDAO(db)

		log.Info("Using store: ", appState.Config.Store.Type)
		return db
	default:
		log.Fatalf("store.type (%s) is not supported", appState.Config.Store.Type)
		return nil
	}
}

// initializeTaskRouter starts the background task router on its own SQL
// connection. The queue cannot share the bun connection pool.
func initializeTaskRouter(ctx context.Context, appState *models.AppState) {
	queueDB, err := postgres.NewPostgresConnForQueue(appState.Config)
	if err != nil {
		log.Fatalf("Failed to connect task queue to database: %v", err)
	}
	tasks.RunTaskRouter(ctx, appState, queueDB)
}

func pgDebugLogging(db *bun.DB) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// setupSignalHandler sets up a signal handler to close the task router and
// database connection on termination
func setupSignalHandler(appState *models.AppState, db *bun.DB) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		if appState.TaskRouter != nil {
			if err := appState.TaskRouter.Close(); err != nil {
				log.Errorf("Error closing task router: %v", err)
			}
		}
		if db != nil {
			if err := db.Close(); err != nil {
				log.Errorf("Error closing database connection: %v", err)
			}
		}
		os.Exit(0)
	}()
}

// setupPurgeProcessor sets up a go routine to purge stale session contexts at
// a regular interval. It's cancellable via the passed context.
// If Config.Data.PurgeEvery is 0, this function does nothing.
func setupPurgeProcessor(ctx context.Context, appState *models.AppState) {
	interval := time.Duration(appState.Config.Data.PurgeEvery) * time.Minute
	if interval == 0 {
		log.Debug("session purge processor disabled")
		return
	}
	ttl := time.Duration(appState.Config.Data.SessionTTL) * time.Minute

	log.Infof("Starting session purge processor. Purging every %v", interval)
	go purgeLoop(ctx, appState.Contexts, interval, ttl)
}

// purgeLoop sweeps stale session contexts until the context is cancelled.
func purgeLoop(ctx context.Context, contexts models.ContextStore, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping session purge processor")
			return
		case <-ticker.C:
			purged := contexts.Purge(time.Now().Add(-ttl))
			if purged > 0 {
				log.Infof("purged %d stale session contexts", purged)
			}
		}
	}
}
