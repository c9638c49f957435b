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
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/storage"
)

// Config holds the tunable parameters of a pipeline run.
type Config struct {
	// BatchSize is the number of records submitted per embedding request.
	BatchSize int

	// MaxRetries is the attempt budget per batch.
	MaxRetries int

	// RetryDelay is the base delay unit for backoff: rate-limited attempts
	// wait RetryDelay * 2^attempt, other failures wait 2 * RetryDelay.
	RetryDelay time.Duration

	// MaxFailedBatches is the hard ceiling on failed batches. When more
	// batches than this fail, the run aborts without dispatching further
	// batches.
	MaxFailedBatches int

	// Workers is the number of batches processed concurrently.
	// 1 (the default) processes batches sequentially.
	Workers int

	// ReportInterval is how often progress is reported (number of records).
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults for a remote
// embedding API.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:        20,
		MaxRetries:       3,
		RetryDelay:       1 * time.Second,
		MaxFailedBatches: 5,
		Workers:          1,
		ReportInterval:   500,
	}
}

// validate checks config invariants shared by every run.
func (c *Config) validate() error {
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxRetries <= 0 {
		return ErrInvalidMaxRetries
	}
	if c.MaxFailedBatches < 0 {
		return ErrInvalidMaxFailedBatches
	}
	return nil
}

// Option configures a Driver.
type Option func(*Driver)

// WithStore attaches a checkpoint store. Successful batches are persisted
// under the corpus's deterministic run ID, and a restarted run over the same
// corpus skips the network calls for batches already stored.
func WithStore(store storage.RunStore) Option {
	return func(d *Driver) {
		d.store = store
	}
}

// WithProgress directs progress reporting to w (typically os.Stderr).
// Default is no progress output.
func WithProgress(w io.Writer) Option {
	return func(d *Driver) {
		d.progress = w
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Driver sequences the embedding pipeline: split, embed with retries,
// assemble in order, normalize. A Driver executes exactly one run; its state
// moves NotStarted -> Running -> {Completed | Aborted} and never leaves a
// terminal state.
type Driver struct {
	embedder ai.Embedder
	config   *Config
	store    storage.RunStore
	progress io.Writer
	logger   *slog.Logger

	mu    sync.Mutex
	state core.RunState
}

// New creates a pipeline driver. A nil config uses DefaultConfig.
func New(embedder ai.Embedder, config *Config, opts ...Option) (*Driver, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		embedder: embedder,
		config:   config,
		logger:   slog.Default().With("component", "pipeline-driver"),
		state:    core.RunStateNotStarted,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// State returns the driver's current run state.
func (d *Driver) State() core.RunState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Run embeds the full corpus and returns the normalized result.
//
// Batches that exhaust their retries are reported in the result's failure
// manifest; the error return is reserved for run-terminating outcomes: a
// *core.AbortError when the failed-batch ceiling is exceeded or no vectors
// were produced, a *core.DimensionMismatchError on an inconsistent response
// stream, validation errors, and context cancellation.
func (d *Driver) Run(ctx context.Context, records []core.Record) (*core.PipelineResult, error) {
	if err := d.transitionToRunning(); err != nil {
		return nil, err
	}

	if err := core.ValidateRecords(records); err != nil {
		d.setState(core.RunStateAborted)
		return nil, err
	}

	batches, err := Split(records, d.config.BatchSize)
	if err != nil {
		d.setState(core.RunStateAborted)
		return nil, err
	}

	run := &runContext{
		driver:    d,
		asm:       newAssembler(len(batches)),
		retrier:   newRetrier(d.embedder, d.config.MaxRetries, d.config.RetryDelay, d.logger),
		tracker:   newProgressTracker(d.progress, len(records), d.config.ReportInterval),
		saved:     d.loadCheckpoints(ctx, records),
		runID:     core.RunID(records, d.config.BatchSize),
		threshold: d.config.MaxFailedBatches,
	}

	if d.config.Workers > 1 {
		err = run.processConcurrently(ctx, batches, d.config.Workers)
	} else {
		err = run.processSequentially(ctx, batches)
	}
	if err != nil {
		d.setState(core.RunStateAborted)
		return nil, err
	}

	vectors, failures := run.asm.collect()

	if run.asm.failedBatches() > run.threshold {
		d.setState(core.RunStateAborted)
		return nil, &core.AbortError{Reason: core.AbortReasonTooManyFailures, Failures: failures}
	}

	if len(vectors) == 0 {
		d.setState(core.RunStateAborted)
		return nil, &core.AbortError{Reason: core.AbortReasonNoEmbeddings, Failures: failures}
	}

	run.tracker.finish()
	d.cleanupCheckpoints(ctx, run.runID)

	result := &core.PipelineResult{
		Vectors:    NormalizeAll(vectors),
		Failures:   failures,
		Dimensions: run.asm.dimensions(),
		Total:      len(records),
	}

	d.setState(core.RunStateCompleted)
	d.logger.Info("embedding run completed",
		"records", len(records), "vectors", len(result.Vectors),
		"dimensions", result.Dimensions, "failed_batches", len(failures))
	return result, nil
}

func (d *Driver) transitionToRunning() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != core.RunStateNotStarted {
		return ErrAlreadyRun
	}
	d.state = core.RunStateRunning
	return nil
}

func (d *Driver) setState(state core.RunState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
}

// loadCheckpoints returns the batches persisted by an earlier interrupted
// run over the same corpus. Checkpointing is best-effort: a store failure
// degrades to a full run instead of failing it.
func (d *Driver) loadCheckpoints(ctx context.Context, records []core.Record) map[int]core.BatchResult {
	if d.store == nil {
		return nil
	}

	runID := core.RunID(records, d.config.BatchSize)
	saved, err := d.store.LoadBatches(ctx, runID)
	if err != nil {
		d.logger.Warn("failed to load checkpoints, embedding from scratch", "run_id", runID, "err", err)
		return nil
	}
	if len(saved) > 0 {
		d.logger.Info("resuming from checkpoints", "run_id", runID, "batches", len(saved))
	}
	return saved
}

func (d *Driver) cleanupCheckpoints(ctx context.Context, runID string) {
	if d.store == nil {
		return
	}
	if err := d.store.DeleteRun(ctx, runID); err != nil {
		d.logger.Warn("failed to delete checkpoints", "run_id", runID, "err", err)
	}
}

// runContext carries the per-run state shared between batch workers.
type runContext struct {
	driver    *Driver
	asm       *assembler
	retrier   *retrier
	tracker   *progressTracker
	saved     map[int]core.BatchResult
	runID     string
	threshold int
}

// aborted reports whether the failed-batch ceiling has been crossed.
func (r *runContext) aborted() bool {
	return r.asm.failedBatches() > r.threshold
}

// processBatch embeds one batch (or restores it from a checkpoint) and
// records the outcome. Only fatal errors are returned: dimension mismatches
// and context cancellation. Retry-exhausted batches are absorbed into the
// failure manifest.
func (r *runContext) processBatch(ctx context.Context, batch core.Batch) error {
	defer r.tracker.increment(len(batch.Records))

	if saved, ok := r.saved[batch.Index]; ok {
		return r.asm.addVectors(batch, saved.Vectors)
	}

	vectors, err := r.retrier.embed(ctx, batch)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.driver.logger.Warn("batch failed after retries",
			"batch", batch.Index, "records", len(batch.Records), "err", err)
		r.asm.addFailure(batch, err)
		return nil
	}

	if err := r.asm.addVectors(batch, vectors); err != nil {
		return err
	}

	r.checkpoint(ctx, batch, vectors)
	return nil
}

// checkpoint persists a successful batch; failures only log.
func (r *runContext) checkpoint(ctx context.Context, batch core.Batch, vectors [][]float32) {
	if r.driver.store == nil {
		return
	}
	err := r.driver.store.SaveBatch(ctx, r.runID, core.BatchResult{
		BatchIndex: batch.Index,
		Start:      batch.Start,
		Vectors:    vectors,
	})
	if err != nil {
		r.driver.logger.Warn("failed to checkpoint batch", "batch", batch.Index, "err", err)
	}
}

// processSequentially embeds one batch at a time, stopping as soon as the
// failed-batch ceiling is crossed.
func (r *runContext) processSequentially(ctx context.Context, batches []core.Batch) error {
	for _, batch := range batches {
		if r.aborted() {
			return nil
		}
		if err := r.processBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

// processConcurrently embeds independent batches on a bounded worker pool.
// Dispatch stops once the failed-batch ceiling is crossed or a fatal error
// lands; in-flight batches are drained. Retry waits block only their own
// batch's worker.
func (r *runContext) processConcurrently(ctx context.Context, batches []core.Batch, workers int) error {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		fatalMu sync.Mutex
		fatal   error
	)

	setFatal := func(err error) {
		fatalMu.Lock()
		if fatal == nil {
			fatal = err
		}
		fatalMu.Unlock()
	}
	hasFatal := func() bool {
		fatalMu.Lock()
		defer fatalMu.Unlock()
		return fatal != nil
	}

	for _, batch := range batches {
		if r.aborted() || hasFatal() {
			break
		}

		batch := batch
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := r.processBatch(ctx, batch); err != nil {
				setFatal(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			setFatal(submitErr)
			break
		}
	}

	wg.Wait()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	return fatal
}
