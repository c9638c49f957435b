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

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// LoadCSV reads records from the file at path, taking the text of each row
// from the named header column. Column matching is case-insensitive. Rows
// with an empty text cell (after trimming) are skipped; the returned records
// are indexed contiguously from 0 regardless of skipped rows.
func LoadCSV(path, column string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, column)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, column string) ([]core.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, short ones skipped

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}

	var records []core.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if col >= len(row) {
			continue
		}

		text := strings.TrimSpace(row[col])
		if text == "" {
			continue
		}

		records = append(records, core.Record{Index: len(records), Text: text})
	}

	return records, nil
}
