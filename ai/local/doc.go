// Package local implements the ai.Embedder interface for local
// OpenAI-compatible embedding services such as Ollama, LocalAI, and vLLM.
package local
