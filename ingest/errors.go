package ingest

import "errors"

var (
	// ErrMissingColumn indicates the CSV header does not contain the
	// requested text column.
	ErrMissingColumn = errors.New("text column not found in header")

	// ErrEmptyFile indicates the CSV contains no rows at all, not even a
	// header.
	ErrEmptyFile = errors.New("file contains no rows")
)
