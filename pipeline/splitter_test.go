package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

func makeRecords(n int) []core.Record {
	records := make([]core.Record, n)
	for i := range records {
		records[i] = core.Record{Index: i, Text: fmt.Sprintf("rec-%d", i)}
	}
	return records
}

func TestSplit(t *testing.T) {
	t.Run("partitions with short tail", func(t *testing.T) {
		records := makeRecords(45)

		batches, err := Split(records, 20)
		require.NoError(t, err)
		require.Len(t, batches, 3)

		assert.Len(t, batches[0].Records, 20)
		assert.Len(t, batches[1].Records, 20)
		assert.Len(t, batches[2].Records, 5)
	})

	t.Run("preserves order and contiguity", func(t *testing.T) {
		records := makeRecords(17)

		batches, err := Split(records, 5)
		require.NoError(t, err)
		require.Len(t, batches, 4)

		next := 0
		for i, batch := range batches {
			assert.Equal(t, i, batch.Index)
			assert.Equal(t, next, batch.Start)
			assert.Equal(t, next, batch.FirstIndex())
			for _, record := range batch.Records {
				assert.Equal(t, next, record.Index)
				next++
			}
			assert.Equal(t, next-1, batch.LastIndex())
		}
		assert.Equal(t, len(records), next)
	})

	t.Run("exact multiple has no short tail", func(t *testing.T) {
		batches, err := Split(makeRecords(40), 20)
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Len(t, batches[0].Records, 20)
		assert.Len(t, batches[1].Records, 20)
	})

	t.Run("fewer records than batch size", func(t *testing.T) {
		batches, err := Split(makeRecords(3), 20)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Len(t, batches[0].Records, 3)
	})

	t.Run("empty input produces zero batches", func(t *testing.T) {
		batches, err := Split(nil, 20)
		require.NoError(t, err)
		assert.Empty(t, batches)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		_, err := Split(makeRecords(5), 0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)

		_, err = Split(makeRecords(5), -1)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("does not copy records", func(t *testing.T) {
		records := makeRecords(10)
		batches, err := Split(records, 4)
		require.NoError(t, err)

		// Subslices share the backing array with the input.
		assert.Equal(t, &records[0], &batches[0].Records[0])
		assert.Equal(t, &records[8], &batches[2].Records[0])
	})
}
