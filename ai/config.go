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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for embedding service clients.
type Config struct {
	// BaseURL is the base URL of the embedding service API.
	// Example: "https://openrouter.ai/api/v1", "http://localhost:11434/v1"
	BaseURL string

	// Model is the model identifier to use for text embeddings.
	// Example: "qwen/qwen3-embedding-4b", "text-embedding-3-small"
	Model string

	// APIKey is the bearer credential for the service. Local
	// OpenAI-compatible services may leave it empty.
	APIKey string

	// RequestsPerMinute caps the client-side request rate.
	// 0 means unlimited.
	RequestsPerMinute float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the embedding service base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the bearer credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithRequestsPerMinute caps the client-side request rate.
func WithRequestsPerMinute(rpm float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerMinute = rpm
	}
}

// DefaultConfig returns a Config targeting the OpenRouter embeddings API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "qwen/qwen3-embedding-4b",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It appends the
// /v1 suffix most OpenAI-compatible APIs expect when the base URL carries no
// API path at all.
func (c *Config) Normalize() {
	if c.BaseURL == "" {
		return
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.Contains(c.BaseURL, "/v1") && !strings.Contains(c.BaseURL, "/api/") {
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("ai config: BaseURL is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.RequestsPerMinute < 0 {
		return errors.New("ai config: RequestsPerMinute cannot be negative")
	}
	return nil
}
