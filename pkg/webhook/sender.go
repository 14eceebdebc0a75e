package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/internal"
)

const (
	sendTimeout  = 10 * time.Second
	sendRetryMax = 2
)

var _ Sender = &MessengerSender{}

// MessengerSender replies through the Graph API send endpoint.
type MessengerSender struct {
	graphAPIURL string
	pageToken   string
	client      *http.Client
}

func NewMessengerSender(cfg *config.Config) *MessengerSender {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = sendRetryMax
	retryClient.HTTPClient.Timeout = sendTimeout
	retryClient.Logger = internal.NewLeveledLogrus(log)

	return &MessengerSender{
		graphAPIURL: cfg.Messenger.GraphAPIURL,
		pageToken:   cfg.Messenger.PageToken,
		client:      retryClient.StandardClient(),
	}
}

type sendMessageRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	MessagingType string `json:"messaging_type"`
	Message       struct {
		Text string `json:"text"`
	} `json:"message"`
}

func (s *MessengerSender) Send(ctx context.Context, recipientID, text string) error {
	payload := sendMessageRequest{MessagingType: "RESPONSE"}
	payload.Recipient.ID = recipientID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := s.graphAPIURL + "/me/messages?access_token=" + url.QueryEscape(s.pageToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send messenger reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("messenger send rejected with status %d", resp.StatusCode)
	}
	return nil
}

func decodeEvent(r *http.Request, event *messengerEvent) error {
	if err := json.NewDecoder(r.Body).Decode(event); err != nil {
		return fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return nil
}
