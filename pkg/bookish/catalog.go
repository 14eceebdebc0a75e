// Package bookish integrates with the bookstore backend: product and order
// lookups plus admin chat escalation.
package bookish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

const (
	catalogTimeout  = 10 * time.Second
	catalogRetryMax = 2
)

var _ models.BookCatalog = &Catalog{}

// Catalog is the HTTP client for the bookstore product API. Missing books
// and orders surface as ErrNotFound; transport failures as ErrUnavailable.
type Catalog struct {
	baseURL string
	client  *http.Client
}

func NewCatalog(cfg *config.Config) *Catalog {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = catalogRetryMax
	retryClient.HTTPClient.Timeout = catalogTimeout
	retryClient.Logger = internal.NewLeveledLogrus(log)

	return &Catalog{
		baseURL: cfg.Catalog.BaseURL,
		client:  retryClient.StandardClient(),
	}
}

func (c *Catalog) FindByName(ctx context.Context, name string) (*models.Book, error) {
	endpoint := c.baseURL + "/api/books/search?name=" + url.QueryEscape(name)

	var book models.Book
	if err := c.getJSON(ctx, endpoint, "book", &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Catalog) GetDetail(ctx context.Context, id string) (*models.BookDetail, error) {
	endpoint := c.baseURL + "/api/books/" + url.PathEscape(id)

	var detail models.BookDetail
	if err := c.getJSON(ctx, endpoint, "book", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Catalog) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	endpoint := c.baseURL + "/api/orders/" + url.PathEscape(orderID)

	var order models.Order
	if err := c.getJSON(ctx, endpoint, "order", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Catalog) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	endpoint := c.baseURL + "/api/orders/user/" + url.PathEscape(userID)

	var orders []models.Order
	if err := c.getJSON(ctx, endpoint, "orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Catalog) getJSON(ctx context.Context, endpoint, resource string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.NewUnavailableError("catalog", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.NewNotFoundError(resource)
	case resp.StatusCode != http.StatusOK:
		return models.NewUnavailableError(
			"catalog",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return nil
}
