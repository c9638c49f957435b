// Package openrouter implements the ai.Embedder interface against the
// OpenRouter embeddings API and other OpenAI-compatible endpoints that take
// a bearer credential.
package openrouter
