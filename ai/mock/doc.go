// Package mock provides test doubles for the ai package.
//
// The embedder returns deterministic vectors derived from the input text, so
// tests get stable output without talking to a real embedding service.
// Behavior can be overridden per-test through function fields.
package mock
