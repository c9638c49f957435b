package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
)

func newTestEmbedder(t *testing.T, handler http.HandlerFunc) ai.Embedder {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	embedder, err := NewEmbedder(ai.NewConfig(
		ai.WithBaseURL(server.URL),
		ai.WithModel("qwen/qwen3-embedding-4b"),
		ai.WithAPIKey("sk-test"),
	))
	require.NoError(t, err)
	return embedder
}

func embeddingsResponse(vectors [][]float32) map[string]any {
	data := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		data[i] = map[string]any{"object": "embedding", "embedding": v, "index": i}
	}
	return map[string]any{"object": "list", "data": data, "model": "qwen/qwen3-embedding-4b"}
}

func TestEmbedTextsSuccess(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)
		assert.Equal(t, "qwen/qwen3-embedding-4b", req.Model)

		json.NewEncoder(w).Encode(embeddingsResponse([][]float32{
			{0.1, 0.2, 0.3},
			{0.4, 0.5, 0.6},
		}))
	})

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0])
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, vectors[1])
}

func TestEmbedTextsRateLimited(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit_error"}}`))
	})

	_, err := embedder.EmbedTexts(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, ai.KindRateLimited, ai.Classify(err))
}

func TestEmbedTextsServerError(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	_, err := embedder.EmbedTexts(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, ai.KindTransient, ai.Classify(err))
}

func TestEmbedTextsErrorEnvelopeInOKResponse(t *testing.T) {
	// OpenRouter can return an error object under a 200 status. It parses
	// to an empty data list, which must be treated as a failure.
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":{"message":"model not available","type":"invalid_request_error"}}`))
	})

	_, err := embedder.EmbedTexts(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, ai.KindTransient, ai.Classify(err))
}

func TestEmbedTextsCountMismatch(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingsResponse([][]float32{{0.1, 0.2}}))
	})

	_, err := embedder.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Equal(t, ai.KindTransient, ai.Classify(err))
}

func TestEmbedTextsReordersByIndex(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"object":"embedding","embedding":[2],"index":1},
			{"object":"embedding","embedding":[1],"index":0}
		],"model":"m"}`))
	})

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vectors[0])
	assert.Equal(t, []float32{2}, vectors[1])
}

func TestEmbedText(t *testing.T) {
	embedder := newTestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingsResponse([][]float32{{1, 2, 3}}))
	})

	vector, err := embedder.EmbedText(context.Background(), "only")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vector)
}
