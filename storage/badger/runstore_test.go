package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

func TestRunStoreSaveLoad(t *testing.T) {
	store, err := NewMemoryRunStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	runID := "abc123"

	first := core.BatchResult{
		BatchIndex: 0,
		Start:      0,
		Vectors:    [][]float32{{1, 2}, {3, 4}},
	}
	third := core.BatchResult{
		BatchIndex: 2,
		Start:      40,
		Vectors:    [][]float32{{5, 6}},
	}

	require.NoError(t, store.SaveBatch(ctx, runID, first))
	require.NoError(t, store.SaveBatch(ctx, runID, third))

	loaded, err := store.LoadBatches(ctx, runID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, first.Vectors, loaded[0].Vectors)
	assert.Equal(t, 40, loaded[2].Start)

	// Unknown run has no batches.
	empty, err := store.LoadBatches(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRunStoreOverwrite(t *testing.T) {
	store, err := NewMemoryRunStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveBatch(ctx, "run", core.BatchResult{
		BatchIndex: 0, Vectors: [][]float32{{1}},
	}))
	require.NoError(t, store.SaveBatch(ctx, "run", core.BatchResult{
		BatchIndex: 0, Vectors: [][]float32{{2}},
	}))

	loaded, err := store.LoadBatches(ctx, "run")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, [][]float32{{2}}, loaded[0].Vectors)
}

func TestRunStoreDeleteRun(t *testing.T) {
	store, err := NewMemoryRunStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveBatch(ctx, "keep", core.BatchResult{
		BatchIndex: 0, Vectors: [][]float32{{1}},
	}))
	require.NoError(t, store.SaveBatch(ctx, "drop", core.BatchResult{
		BatchIndex: 0, Vectors: [][]float32{{2}},
	}))

	require.NoError(t, store.DeleteRun(ctx, "drop"))

	dropped, err := store.LoadBatches(ctx, "drop")
	require.NoError(t, err)
	assert.Empty(t, dropped)

	kept, err := store.LoadBatches(ctx, "keep")
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// Deleting an already-empty run is a no-op.
	require.NoError(t, store.DeleteRun(ctx, "drop"))
}
