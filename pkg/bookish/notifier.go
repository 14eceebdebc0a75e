package bookish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var _ models.AdminNotifier = &Notifier{}

// Notifier forwards support requests to the admin chat endpoint. An empty
// endpoint disables escalation entirely.
type Notifier struct {
	adminChatURL string
	client       *http.Client
}

func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		adminChatURL: cfg.Catalog.AdminChatURL,
		client:       &http.Client{Timeout: catalogTimeout},
	}
}

type supportRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (n *Notifier) RequestSupport(ctx context.Context, userID, message string) error {
	if n.adminChatURL == "" {
		log.Debugf("admin chat not configured, dropping support request from %s", userID)
		return nil
	}

	body, err := json.Marshal(supportRequest{UserID: userID, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.adminChatURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return models.NewUnavailableError("admin chat", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("admin chat rejected support request: status %d", resp.StatusCode)
	}
	return nil
}
