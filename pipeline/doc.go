// Package pipeline turns an ordered corpus of text records into L2-normalized
// embedding vectors by calling a remote embedding service in bounded-size
// batches.
//
// The Driver is the library entry point. It splits the corpus into contiguous
// batches, embeds each batch through an ai.Embedder with bounded
// retry/backoff, assembles the per-batch results back into original input
// order, and normalizes the surviving vectors in a single pass. Batches that
// exhaust their retry budget become FailureRecords in the result instead of
// stopping the run; the run aborts only when failed batches exceed a global
// threshold, when a batch disagrees with the established embedding
// dimensionality, or when no vectors were produced at all.
//
// Batches are processed sequentially by default. A bounded worker pool
// processes them concurrently when Config.Workers is raised; the assembler
// is the only shared write path and synchronizes internally.
package pipeline
