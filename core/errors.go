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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyText indicates a record's text is empty after trimming.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrNonContiguousIndices indicates record indices do not form the
	// contiguous range [0, N).
	ErrNonContiguousIndices = errors.New("record indices must be contiguous from 0")
)

// Abort reasons carried by AbortError.
const (
	AbortReasonTooManyFailures = "too many failed batches"
	AbortReasonNoEmbeddings    = "no embeddings produced"
)

// AbortError is the run-terminating outcome of a pipeline run: the
// failed-batch threshold was exceeded, or zero vectors were produced.
// It is distinct from a PipelineResult with a non-empty failure manifest,
// which callers may treat as a soft warning.
type AbortError struct {
	Reason   string
	Failures []FailureRecord // failures observed before the abort
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	return fmt.Sprintf("embedding run aborted: %s (%d failed batches)", e.Reason, len(e.Failures))
}

// IsAbort reports whether err is (or wraps) an AbortError.
func IsAbort(err error) bool {
	var abort *AbortError
	return errors.As(err, &abort)
}

// DimensionMismatchError indicates a batch returned vectors whose
// dimensionality disagrees with the established run-wide dimensionality.
// This is fatal regardless of the failure-count threshold: it signals a
// corrupted or inconsistent data stream.
type DimensionMismatchError struct {
	BatchIndex int
	Want       int
	Got        int
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("batch %d: embedding dimension mismatch: want %d, got %d",
		e.BatchIndex, e.Want, e.Got)
}
