package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/bot"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

const OKResponse = "OK"

type predictRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

// PostPredictHandler resolves one chat turn and returns the response with
// the resolved intent, confidence and session context.
func PostPredictHandler(resolver *bot.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := resolver.Resolve(r.Context(), req.SessionID, req.UserID, req.Message)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, result); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetSessionContextHandler returns the accumulated context for a session. A
// session that was never seen returns an empty context, not a 404.
func GetSessionContextHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		sessionContext := appState.Contexts.Get(sessionID)
		if err := encodeJSON(w, sessionContext); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

type purgeResponse struct {
	Purged int `json:"purged"`
}

// PostPurgeSessionsHandler drops session contexts idle past the configured
// TTL.
func PostPurgeSessionsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ttl := time.Duration(appState.Config.Data.SessionTTL) * time.Minute
		purged := appState.Contexts.Purge(time.Now().Add(-ttl))

		log.Infof("purged %d idle session contexts", purged)
		if err := encodeJSON(w, purgeResponse{Purged: purged}); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
