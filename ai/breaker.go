package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerEmbedder wraps an Embedder with circuit breaking. Once the remote
// service fails persistently, further calls are rejected immediately instead
// of piling retries onto a struggling endpoint. Rejections from an open
// breaker classify as transient, so they flow through the pipeline's normal
// retry and failure accounting.
type BreakerEmbedder struct {
	inner  Embedder
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

// NewBreakerEmbedder wraps inner with a circuit breaker named name.
// The breaker trips when at least 3 requests were made in the rolling
// interval and 60% of them failed.
func NewBreakerEmbedder(inner Embedder, name string) *BreakerEmbedder {
	logger := slog.Default().With("component", "breaker-embedder")

	st := gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerEmbedder{
		inner:  inner,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
	}
}

// EmbedText implements Embedder.
func (b *BreakerEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.EmbedText(ctx, text)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return result.([]float32), nil
}

// EmbedTexts implements Embedder.
func (b *BreakerEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.EmbedTexts(ctx, texts)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return result.([][]float32), nil
}

// wrap keeps the classification of errors coming from the inner embedder and
// marks breaker rejections as transient.
func (b *BreakerEmbedder) wrap(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return NewTransientError("circuit breaker open", err)
	}
	return err
}
