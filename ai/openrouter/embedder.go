// Copyright 2025 the Embedding Atlas Agent authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
)

// Embedder implements ai.Embedder against OpenRouter's embeddings API (or
// any other OpenAI-compatible endpoint reachable with a bearer credential).
//
// One EmbedTexts call is exactly one network request; retrying is the
// pipeline's responsibility. Failures are returned as *ai.Error so the retry
// loop can distinguish rate limiting from transient faults.
type Embedder struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter // nil when unlimited
	logger  *slog.Logger
}

// newEmbedder is the internal constructor returning the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiKey := config.APIKey
	if apiKey == "" {
		// Some OpenAI-compatible services do not require authentication.
		apiKey = "none"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = config.BaseURL

	var limiter *rate.Limiter
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerMinute/60.0), 1)
	}

	return &Embedder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   config.Model,
		limiter: limiter,
		logger:  slog.Default().With("component", "openrouter-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in one
// request. The response must carry exactly one embedding per input, in input
// order; anything else is a transient failure.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	e.logger.Debug("requesting embeddings", "count", len(texts), "model", e.model)

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		classified := classify(err)
		e.logger.Debug("embedding request failed", "kind", ai.Classify(classified).String(), "err", err)
		return nil, classified
	}

	// A nominally successful envelope can still carry an error payload
	// instead of data; it parses to an empty Data slice here.
	if len(resp.Data) != len(texts) {
		return nil, ai.NewTransientError(
			fmt.Sprintf("response carried %d embeddings for %d inputs", len(resp.Data), len(texts)), nil)
	}

	vectors := make([][]float32, len(texts))
	for i, item := range resp.Data {
		pos := item.Index
		if pos < 0 || pos >= len(vectors) {
			pos = i
		}
		vectors[pos] = item.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, ai.NewTransientError(fmt.Sprintf("response missing embedding for input %d", i), nil)
		}
	}

	return vectors, nil
}

// classify maps transport and API errors onto the pipeline's error taxonomy.
// HTTP 429 is rate limiting; everything else is transient.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ai.NewRateLimitedError("remote rate limit", err)
		}
		return ai.NewTransientError(fmt.Sprintf("api error (status %d)", apiErr.HTTPStatusCode), err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ai.NewRateLimitedError("remote rate limit", err)
		}
		return ai.NewTransientError(fmt.Sprintf("request error (status %d)", reqErr.HTTPStatusCode), err)
	}

	return ai.NewTransientError("request failed", err)
}
