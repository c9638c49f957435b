package storage

import (
	"context"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// RunStore persists per-batch embedding results so interrupted runs can be
// resumed without repeating completed network calls.
type RunStore interface {
	// SaveBatch persists the raw vectors of one successful batch under runID.
	// Saving the same batch index twice overwrites the earlier value.
	SaveBatch(ctx context.Context, runID string, result core.BatchResult) error

	// LoadBatches returns every batch previously saved under runID, keyed by
	// batch index. A run with no saved batches returns an empty map.
	LoadBatches(ctx context.Context, runID string) (map[int]core.BatchResult, error)

	// DeleteRun removes all batches saved under runID. Called after a run
	// completes, when the checkpoints are no longer needed.
	DeleteRun(ctx context.Context, runID string) error

	// Close releases the underlying store.
	Close() error
}
