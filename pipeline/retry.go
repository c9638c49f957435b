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
	"fmt"
	"log/slog"
	"time"

	"github.com/dataelvisliang/Embedding-Atlas-Agent/ai"
	"github.com/dataelvisliang/Embedding-Atlas-Agent/core"
)

// retrier executes the attempts of a single batch against the embedder.
// Attempts are strictly serial: each retry waits for the previous attempt's
// outcome before deciding its delay. The sleep function is injectable for
// tests; the default blocks on a context-aware timer so backoff waits never
// stall unrelated batches.
type retrier struct {
	embedder   ai.Embedder
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

func newRetrier(embedder ai.Embedder, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *retrier {
	return &retrier{
		embedder:   embedder,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// retryDelay computes the wait after failed attempt number attempt (0-based).
// Rate-limited failures back off exponentially: base * 2^attempt. Everything
// else waits a fixed 2 * base.
func retryDelay(kind ai.ErrorKind, attempt int, base time.Duration) time.Duration {
	if kind == ai.KindRateLimited {
		return base << uint(attempt)
	}
	return 2 * base
}

// embed runs up to maxRetries attempts for the batch. On success it returns
// exactly one vector per record, in record order. After the retry budget is
// exhausted it returns the last observed error; the caller records it as a
// batch failure rather than terminating the run.
func (r *retrier) embed(ctx context.Context, batch core.Batch) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vectors, err := r.embedder.EmbedTexts(ctx, batch.Texts())
		if err == nil && len(vectors) != len(batch.Records) {
			err = ai.NewTransientError(
				fmt.Sprintf("got %d vectors for %d records", len(vectors), len(batch.Records)), nil)
		}
		if err == nil {
			if attempt > 0 {
				r.logger.Debug("batch succeeded after retry", "batch", batch.Index, "attempt", attempt)
			}
			return vectors, nil
		}

		lastErr = err
		kind := ai.Classify(err)
		delay := retryDelay(kind, attempt, r.baseDelay)
		r.logger.Debug("batch attempt failed",
			"batch", batch.Index, "attempt", attempt, "kind", kind.String(), "delay", delay, "err", err)

		// The wait follows every failed attempt, including the last: the
		// remote is throttling or struggling either way, and the next batch
		// should not hit it immediately.
		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
