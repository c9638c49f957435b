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

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

const (
	// VectorsFile is the name of the Parquet file holding embedded records.
	VectorsFile = "vectors.parquet"

	// FailuresFile is the name of the Parquet file holding the failure
	// manifest. It is written only when the run had failures.
	FailuresFile = "failures.parquet"
)

// VectorRow is the Parquet schema for one embedded record.
type VectorRow struct {
	Index     int64     `parquet:"index"`
	Text      string    `parquet:"text"`
	Embedding []float32 `parquet:"embedding"`
}

// FailureRow is the Parquet schema for one failed batch.
type FailureRow struct {
	BatchIndex int64  `parquet:"batch_index"`
	FirstIndex int64  `parquet:"first_index"`
	LastIndex  int64  `parquet:"last_index"`
	Kind       string `parquet:"kind"`
	Message    string `parquet:"message"`
}

// WriteResult writes the run's vectors and failure manifest to dir, creating
// it if needed. records must be the same slice the pipeline ran over: the
// result's surviving vector indices are resolved against it to recover each
// vector's original text.
func WriteResult(dir string, records []core.Record, result *core.PipelineResult) error {
	indices := result.SucceededIndices()
	if len(indices) != len(result.Vectors) {
		return fmt.Errorf("result is inconsistent: %d vectors but %d surviving indices",
			len(result.Vectors), len(indices))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rows := make([]VectorRow, len(result.Vectors))
	for i, v := range result.Vectors {
		idx := indices[i]
		rows[i] = VectorRow{
			Index:     int64(idx),
			Text:      records[idx].Text,
			Embedding: v,
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := parquet.WriteFile(filepath.Join(dir, VectorsFile), rows); err != nil {
			return fmt.Errorf("failed to write vectors: %w", err)
		}
		return nil
	})

	if len(result.Failures) > 0 {
		failureRows := make([]FailureRow, len(result.Failures))
		for i, f := range result.Failures {
			failureRows[i] = FailureRow{
				BatchIndex: int64(f.BatchIndex),
				FirstIndex: int64(f.FirstIndex),
				LastIndex:  int64(f.LastIndex),
				Kind:       f.Kind,
				Message:    f.Message,
			}
		}
		g.Go(func() error {
			if err := parquet.WriteFile(filepath.Join(dir, FailuresFile), failureRows); err != nil {
				return fmt.Errorf("failed to write failures: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
