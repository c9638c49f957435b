package ai

import "context"

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// one request. The returned slice contains exactly one embedding per
	// input text, in the same order as the inputs.
	// Returns an error (classifiable via Classify) if the request fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
