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
	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// Split partitions records into contiguous batches of at most batchSize,
// preserving order. For N records it produces ceil(N/batchSize) batches; all
// are full except possibly the last. Batches reference the input slice, no
// record is copied. Empty input produces zero batches.
//
// Pure partitioning: no side effects, no validation of record contents.
func Split(records []core.Record, batchSize int) ([]core.Batch, error) {
	if batchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	if len(records) == 0 {
		return nil, nil
	}

	numBatches := (len(records) + batchSize - 1) / batchSize
	batches := make([]core.Batch, 0, numBatches)

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, core.Batch{
			Index:   len(batches),
			Start:   start,
			Records: records[start:end],
		})
	}

	return batches, nil
}
