package llms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var _ models.Classifier = &NLPClient{}
var _ models.Trainer = &NLPClient{}

// NLPClient is the HTTP client for the model server. It implements both the
// classifier and the trainer capability; the server hosts them side by side.
type NLPClient struct {
	base *HTTPBase
}

// TrainRequestTimeout is generous: training walks the full corpus.
const TrainRequestTimeout = 5 * time.Minute

func NewNLPClient(cfg *config.Config) *NLPClient {
	return &NLPClient{
		base: NewHTTPBase(cfg.NLP.ServerURL, DefaultHTTPTimeout, DefaultMaxRetryAttempts),
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

func (c *NLPClient) Predict(ctx context.Context, normalizedText string) (*models.Prediction, error) {
	body, err := c.base.Post(ctx, "/predict", predictRequest{Text: normalizedText})
	if err != nil {
		return nil, models.NewUnavailableError("classifier", err)
	}

	var resp predictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse predict response: %w", err)
	}
	return &models.Prediction{
		IntentTag:  resp.Intent,
		Confidence: resp.Confidence,
		Source:     models.SourceClassifier,
	}, nil
}

type reloadRequest struct {
	Artifact string `json:"artifact"`
}

func (c *NLPClient) Reload(ctx context.Context, artifact string) error {
	if _, err := c.base.Post(ctx, "/reload", reloadRequest{Artifact: artifact}); err != nil {
		return models.NewUnavailableError("classifier", err)
	}
	return nil
}

type trainResponse struct {
	Artifact string `json:"artifact"`
}

func (c *NLPClient) Train(ctx context.Context, corpus *models.IntentCorpus) (string, error) {
	trainBase := NewHTTPBase(c.base.BaseURL, TrainRequestTimeout, 1)
	body, err := trainBase.Post(ctx, "/train", corpus)
	if err != nil {
		return "", models.NewUnavailableError("trainer", err)
	}

	var resp trainResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse train response: %w", err)
	}
	if resp.Artifact == "" {
		return "", fmt.Errorf("train response carries no artifact")
	}
	return resp.Artifact, nil
}

// HealthCheck verifies the model server is reachable. Used at startup.
func (c *NLPClient) HealthCheck(ctx context.Context) error {
	return c.base.HealthCheck(ctx)
}
