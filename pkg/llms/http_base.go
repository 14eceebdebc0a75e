// Package llms talks to the external model server that hosts the intent
// classifier and its trainer.
package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tamnhu11204/project-chatbot/internal"
)

var log = internal.GetLogger()

const (
	DefaultHTTPTimeout      = 10 * time.Second
	DefaultMaxRetryAttempts = 3
)

// HTTPBase is a mixin for capabilities exposed as JSON-over-HTTP endpoints.
type HTTPBase struct {
	BaseURL          string
	RequestTimeout   time.Duration
	MaxRetryAttempts int

	client *http.Client
}

func NewHTTPBase(baseURL string, requestTimeout time.Duration, maxRetryAttempts int) *HTTPBase {
	if requestTimeout == 0 {
		requestTimeout = DefaultHTTPTimeout
	}
	if maxRetryAttempts == 0 {
		maxRetryAttempts = DefaultMaxRetryAttempts
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = maxRetryAttempts
	retryClient.HTTPClient.Timeout = requestTimeout
	retryClient.Logger = internal.NewLeveledLogrus(log)
	retryClient.CheckRetry = ignoreBadRequestRetryPolicy

	return &HTTPBase{
		BaseURL:          baseURL,
		RequestTimeout:   requestTimeout,
		MaxRetryAttempts: maxRetryAttempts,
		client:           retryClient.StandardClient(),
	}
}

// Post makes a JSON POST request to path and returns the response body.
func (h *HTTPBase) Post(ctx context.Context, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error making POST request to %s: %d - %s", path, resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// HealthCheck probes the server's health endpoint once.
func (h *HTTPBase) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// ignoreBadRequestRetryPolicy does not retry 400s: the model server uses
// them for malformed payloads, which retries cannot repair.
func ignoreBadRequestRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil && resp.StatusCode == http.StatusBadRequest {
		return false, err
	}
	shouldRetry, _ := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	return shouldRetry, nil
}
