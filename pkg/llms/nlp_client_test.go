package llms

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

func newTestNLPClient(serverURL string) *NLPClient {
	return NewNLPClient(&config.Config{
		NLP: config.NLPConfig{ServerURL: serverURL},
	})
}

func TestPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tìm sách dế mèn", req.Text)

		_ = json.NewEncoder(w).Encode(predictResponse{
			Intent:     models.IntentFindBook,
			Confidence: 0.92,
		})
	}))
	defer server.Close()

	prediction, err := newTestNLPClient(server.URL).Predict(context.Background(), "tìm sách dế mèn")
	require.NoError(t, err)
	assert.Equal(t, models.IntentFindBook, prediction.IntentTag)
	assert.Equal(t, 0.92, prediction.Confidence)
	assert.Equal(t, models.SourceClassifier, prediction.Source)
}

func TestPredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestNLPClient(server.URL).Predict(context.Background(), "tìm sách")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnavailable)
}

func TestTrain(t *testing.T) {
	corpus := &models.IntentCorpus{
		Intents: []models.Intent{
			{Tag: models.IntentGreeting, Patterns: []string{"xin chào"}, Responses: []string{"Chào bạn!"}},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/train", r.URL.Path)

		var received models.IntentCorpus
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Len(t, received.Intents, 1)

		_ = json.NewEncoder(w).Encode(trainResponse{Artifact: "model-20260831"})
	}))
	defer server.Close()

	artifact, err := newTestNLPClient(server.URL).Train(context.Background(), corpus)
	require.NoError(t, err)
	assert.Equal(t, "model-20260831", artifact)
}

func TestTrainEmptyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(trainResponse{})
	}))
	defer server.Close()

	_, err := newTestNLPClient(server.URL).Train(context.Background(), &models.IntentCorpus{})
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	var gotArtifact string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reload", r.URL.Path)

		var req reloadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotArtifact = req.Artifact
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestNLPClient(server.URL).Reload(context.Background(), "model-20260831")
	require.NoError(t, err)
	assert.Equal(t, "model-20260831", gotArtifact)
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, newTestNLPClient(server.URL).HealthCheck(context.Background()))
}
