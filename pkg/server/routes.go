package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tamnhu11204/project-chatbot/pkg/bot"
	"github.com/tamnhu11204/project-chatbot/pkg/learning"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/webhook"
)

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(
	appState *models.AppState,
	resolver *bot.Resolver,
	collector *learning.Collector,
) *http.Server {
	router := setupRouter(appState, resolver, collector)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(
	appState *models.AppState,
	resolver *bot.Resolver,
	collector *learning.Collector,
) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Route("/api/v1", func(r chi.Router) {
		// Chat routes
		r.Post("/predict", PostPredictHandler(resolver))

		// Session context routes
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/purge", PostPurgeSessionsHandler(appState))
			r.Get("/{sessionId}/context", GetSessionContextHandler(appState))
		})

		// Learning loop routes
		r.Post("/feedback", PostFeedbackHandler(collector))
		r.Get("/feedbacks", GetFeedbacksHandler(appState))
		r.Post("/feedback/correct", PostCorrectFeedbackHandler(collector))
		r.Get("/intents", GetIntentsHandler(appState))
		r.Post("/retrain", PostRetrainHandler(appState))
	})

	if appState.Config.Messenger.Enabled {
		log.Info("Messenger webhook enabled")
		router.Mount("/webhook", webhook.Routes(appState, resolver))
	}

	return router
}
