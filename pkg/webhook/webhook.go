// Package webhook receives Facebook Messenger events and answers them
// through the intent resolver.
package webhook

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/bot"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

// TurnResolver resolves one inbound message. Implemented by bot.Resolver.
type TurnResolver interface {
	Resolve(ctx context.Context, sessionID, userID, message string) (*bot.TurnResult, error)
}

// Sender delivers a reply back to the messaging platform.
type Sender interface {
	Send(ctx context.Context, recipientID, text string) error
}

// Routes returns the Messenger webhook router: GET for the subscription
// handshake, POST for message events.
func Routes(appState *models.AppState, resolver TurnResolver) chi.Router {
	router := chi.NewRouter()
	router.Get("/", VerifyHandler(appState.Config))
	router.Post("/", EventHandler(resolver, NewMessengerSender(appState.Config)))
	return router
}

// VerifyHandler answers the Messenger subscription handshake: echo the
// challenge when the verify token matches, refuse otherwise.
func VerifyHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("hub.mode")
		token := r.URL.Query().Get("hub.verify_token")
		challenge := r.URL.Query().Get("hub.challenge")

		if mode != "subscribe" || token != cfg.Messenger.VerifyToken {
			http.Error(w, "verification failed", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(challenge))
	}
}

type messengerEvent struct {
	Object string `json:"object"`
	Entry  []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// EventHandler resolves each inbound text message and replies via the
// sender. Individual message failures are logged, never bubbled up:
// Messenger redelivers the whole batch on a non-200.
func EventHandler(resolver TurnResolver, sender Sender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event messengerEvent
		if err := decodeEvent(r, &event); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if event.Object != "page" {
			http.Error(w, "unsupported event object", http.StatusNotFound)
			return
		}

		for _, entry := range event.Entry {
			for _, messaging := range entry.Messaging {
				senderID := messaging.Sender.ID
				text := messaging.Message.Text
				if senderID == "" || text == "" {
					continue
				}

				result, err := resolver.Resolve(r.Context(), senderID, senderID, text)
				if err != nil {
					log.Errorf("webhook resolve failed for %s: %v", senderID, err)
					continue
				}
				if err := sender.Send(r.Context(), senderID, result.Response); err != nil {
					log.Errorf("webhook send failed for %s: %v", senderID, err)
				}
			}
		}

		_, _ = w.Write([]byte("EVENT_RECEIVED"))
	}
}
