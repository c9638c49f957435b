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
	"fmt"
	"strings"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - Index must not be negative
//
// Empty text is rejected here, upstream of the embedding client: the remote
// endpoint contract assumes every submitted string is non-empty.
func ValidateRecord(record Record) error {
	if strings.TrimSpace(record.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyText)
	}
	if record.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidRecord, record.Index)
	}
	return nil
}

// ValidateRecords validates a full corpus: every record passes ValidateRecord
// and indices form the contiguous range [0, N) in order.
func ValidateRecords(records []Record) error {
	for i, record := range records {
		if err := ValidateRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if record.Index != i {
			return fmt.Errorf("record %d: %w (got index %d)", i, ErrNonContiguousIndices, record.Index)
		}
	}
	return nil
}
