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


package pipeline

import (
	"sort"
	"sync"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// assembler merges per-batch outcomes back into a single order-preserving
// collection. Each batch owns one slot; failed batches leave their slot
// empty and contribute a FailureRecord instead, so the collected output
// contains only successfully embedded vectors, in original input order.
//
// The assembler also owns the two pieces of cross-batch mutable state: the
// run-wide dimensionality D (established first-writer-wins by the earliest
// successful batch to land) and the failed-batch count. All methods are safe
// for concurrent use.
type assembler struct {
	mu       sync.Mutex
	slots    [][][]float32
	failures []core.FailureRecord
	dims     int // 0 until established
}

func newAssembler(numBatches int) *assembler {
	return &assembler{
		slots: make([][][]float32, numBatches),
	}
}

// addVectors records a successful batch. Every vector is checked against the
// run-wide dimensionality; the first batch to land establishes it. A
// disagreement returns a *core.DimensionMismatchError, which the driver
// treats as fatal.
func (a *assembler) addVectors(batch core.Batch, vectors [][]float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, v := range vectors {
		if a.dims == 0 {
			a.dims = len(v)
			continue
		}
		if len(v) != a.dims {
			return &core.DimensionMismatchError{
				BatchIndex: batch.Index,
				Want:       a.dims,
				Got:        len(v),
			}
		}
	}

	a.slots[batch.Index] = vectors
	return nil
}

// addFailure records a batch that exhausted its retry budget.
func (a *assembler) addFailure(batch core.Batch, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failures = append(a.failures, core.FailureRecord{
		BatchIndex: batch.Index,
		FirstIndex: batch.FirstIndex(),
		LastIndex:  batch.LastIndex(),
		Kind:       ai.Classify(err).String(),
		Message:    err.Error(),
	})
}

// failedBatches returns the number of batches recorded as failed so far.
func (a *assembler) failedBatches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.failures)
}

// dimensions returns the established run-wide dimensionality, or 0 if no
// batch has succeeded yet.
func (a *assembler) dimensions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dims
}

// collect flattens the populated slots in batch order and returns the
// failure records sorted by batch index. The union of collected vector
// indices and failure ranges covers the full record range with no overlap.
func (a *assembler) collect() ([][]float32, []core.FailureRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var vectors [][]float32
	for _, slot := range a.slots {
		vectors = append(vectors, slot...)
	}

	failures := make([]core.FailureRecord, len(a.failures))
	copy(failures, a.failures)
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].BatchIndex < failures[j].BatchIndex
	})

	return vectors, failures
}
