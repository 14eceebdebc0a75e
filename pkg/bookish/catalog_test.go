package bookish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

func newTestCatalog(serverURL string) *Catalog {
	return NewCatalog(&config.Config{
		Catalog: config.CatalogConfig{BaseURL: serverURL},
	})
}

func TestFindByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books/search", r.URL.Path)
		assert.Equal(t, "Dế Mèn", r.URL.Query().Get("name"))

		_ = json.NewEncoder(w).Encode(models.Book{
			ID:    "b1",
			Name:  "Dế Mèn Phiêu Lưu Ký",
			Price: 85000,
		})
	}))
	defer server.Close()

	book, err := newTestCatalog(server.URL).FindByName(context.Background(), "Dế Mèn")
	require.NoError(t, err)
	assert.Equal(t, "b1", book.ID)
	assert.Equal(t, 85000.0, book.Price)
}

func TestFindByNameNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestCatalog(server.URL).FindByName(context.Background(), "không tồn tại")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetOrderByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/a123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.Order{ID: "a123", Status: "Đang giao", Total: 170000})
	}))
	defer server.Close()

	order, err := newTestCatalog(server.URL).GetOrderByID(context.Background(), "a123")
	require.NoError(t, err)
	assert.Equal(t, "Đang giao", order.Status)
}

func TestGetOrdersByUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/user/u1", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Order{
			{ID: "a123", Status: "Đang giao", Total: 170000},
			{ID: "b456", Status: "Đã giao", Total: 85000},
		})
	}))
	defer server.Close()

	orders, err := newTestCatalog(server.URL).GetOrdersByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "b456", orders[1].ID)
}

func TestCatalogUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := newTestCatalog(server.URL).FindByName(context.Background(), "Dế Mèn")
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

func TestRequestSupport(t *testing.T) {
	var got supportRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(&config.Config{
		Catalog: config.CatalogConfig{AdminChatURL: server.URL},
	})
	err := notifier.RequestSupport(context.Background(), "u1", "Chatbot cần hỗ trợ: gặp admin")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Contains(t, got.Message, "gặp admin")
}

func TestRequestSupportDisabled(t *testing.T) {
	notifier := NewNotifier(&config.Config{})
	assert.NoError(t, notifier.RequestSupport(context.Background(), "u1", "hỗ trợ"))
}
