package server

import (
	"errors"
	"net/http"

	"github.com/tamnhu11204/project-chatbot/pkg/learning"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

type feedbackRequest struct {
	UserInput       string               `json:"user_input"       validate:"required"`
	BotResponse     string               `json:"bot_response"`
	PredictedIntent string               `json:"predicted_intent"`
	Label           models.FeedbackLabel `json:"label"            validate:"required,oneof=positive negative"`
}

// PostFeedbackHandler records an explicit user reaction to a bot response.
func PostFeedbackHandler(collector *learning.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		record, err := collector.RecordReaction(
			r.Context(),
			req.UserInput, req.BotResponse, req.PredictedIntent,
			req.Label,
		)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
		if record == nil {
			// Positive reactions are acknowledged, not stored.
			if err := encodeJSON(w, OKResponse); err != nil {
				renderError(w, err, http.StatusInternalServerError)
			}
			return
		}

		if err := encodeJSON(w, record); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetFeedbacksHandler lists the correction candidates awaiting a merge.
func GetFeedbacksHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := appState.Feedback.ReadPending(r.Context())
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, pending); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

type correctFeedbackRequest struct {
	UserInput     string `json:"user_input"     validate:"required"`
	CorrectIntent string `json:"correct_intent" validate:"required"`
}

// PostCorrectFeedbackHandler attaches an admin-supplied intent tag to the
// pending feedback for an input.
func PostCorrectFeedbackHandler(collector *learning.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req correctFeedbackRequest
		if err := decodeJSON(r, &req); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		if err := collector.Correct(r.Context(), req.UserInput, req.CorrectIntent); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				renderError(w, err, http.StatusNotFound)
				return
			}
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, OKResponse); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetIntentsHandler returns the current corpus snapshot.
func GetIntentsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := encodeJSON(w, appState.Corpus.Corpus()); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// PostRetrainHandler queues a feedback merge, which arms the retrain trigger
// when the corpus grows enough. The merge itself runs on the task router.
func PostRetrainHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := appState.TaskPublisher.Publish(
			models.FeedbackMergeTopic,
			map[string]string{},
			models.MergeTask{Reason: "manual"},
		)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		if err := encodeJSON(w, OKResponse); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}
