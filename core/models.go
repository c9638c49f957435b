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


package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// Record is one input text unit with a stable positional index.
// Records are created once during ingestion and never mutated.
type Record struct {
	Index int    // 0-based position in the original corpus
	Text  string // non-empty after trimming
}

// Batch is a contiguous, ordered group of Records submitted together
// to the embedding endpoint. Batches partition the full record sequence
// without gaps, overlap, or reordering.
type Batch struct {
	Index   int // 0-based batch position
	Start   int // original index of the first record in the batch
	Records []Record
}

// FirstIndex returns the original index of the first record in the batch.
func (b Batch) FirstIndex() int {
	return b.Start
}

// LastIndex returns the original index of the last record in the batch (inclusive).
func (b Batch) LastIndex() int {
	return b.Start + len(b.Records) - 1
}

// Texts extracts the text payloads of the batch, in record order.
func (b Batch) Texts() []string {
	texts := make([]string, len(b.Records))
	for i, record := range b.Records {
		texts[i] = record.Text
	}
	return texts
}

// BatchResult is the raw (unnormalized) embedding output of one successful
// batch. It is the unit persisted by checkpoint stores.
type BatchResult struct {
	BatchIndex int
	Start      int // original index of the first record covered
	Vectors    [][]float32
}

// FailureRecord identifies a batch that could not be embedded after
// exhausting retries, with its inclusive record index range and the reason.
type FailureRecord struct {
	BatchIndex int
	FirstIndex int
	LastIndex  int
	Kind       string // error class: "rate_limited" or "transient"
	Message    string // last observed error
}

// PipelineResult is the final outcome of a completed run: the L2-normalized
// vectors of every successfully embedded record, in original input order,
// plus the failure manifest. Indices of failed records are recoverable only
// through the FailureRecord ranges.
type PipelineResult struct {
	Vectors    [][]float32
	Failures   []FailureRecord
	Dimensions int // run-wide embedding dimensionality D
	Total      int // number of input records
}

// SucceededIndices reconstructs the original record index of each vector in
// Vectors, by removing the failed ranges from [0, Total).
func (r *PipelineResult) SucceededIndices() []int {
	failed := make(map[int]bool)
	for _, f := range r.Failures {
		for i := f.FirstIndex; i <= f.LastIndex; i++ {
			failed[i] = true
		}
	}

	indices := make([]int, 0, len(r.Vectors))
	for i := 0; i < r.Total; i++ {
		if !failed[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

// RunState tracks the lifecycle of a pipeline run.
// Transitions: NotStarted -> Running -> {Completed | Aborted}.
// There is no transition back from a terminal state.
type RunState int

const (
	RunStateNotStarted RunState = iota
	RunStateRunning
	RunStateCompleted
	RunStateAborted
)

// String returns a human-readable state name.
func (s RunState) String() string {
	switch s {
	case RunStateNotStarted:
		return "not started"
	case RunStateRunning:
		return "running"
	case RunStateCompleted:
		return "completed"
	case RunStateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RunID derives a deterministic identifier for a run from the corpus texts
// and the batch size, using BLAKE2b hashing. Identical corpora embedded with
// the same batching produce identical IDs, which lets checkpoint stores
// resume interrupted runs.
func RunID(records []Record, batchSize int) string {
	h, _ := blake2b.New(16, nil)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(batchSize))
	h.Write(buf[:])

	for _, record := range records {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(record.Text)))
		h.Write(buf[:])
		h.Write([]byte(record.Text))
	}

	return hex.EncodeToString(h.Sum(nil))
}
