package pipeline

import "errors"

var (
	// ErrEmbedderRequired is returned when a driver is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxRetries is returned when the retry budget is not positive.
	ErrInvalidMaxRetries = errors.New("max retries must be greater than 0")

	// ErrInvalidMaxFailedBatches is returned when the abort threshold is negative.
	ErrInvalidMaxFailedBatches = errors.New("max failed batches cannot be negative")

	// ErrAlreadyRun is returned when Run is called on a driver that already
	// entered Running; a driver executes exactly one run.
	ErrAlreadyRun = errors.New("driver has already run")
)
