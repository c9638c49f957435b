package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	rateLimited := NewRateLimitedError("remote rate limit", nil)
	assert.Equal(t, KindRateLimited, Classify(rateLimited))

	transient := NewTransientError("connection reset", errors.New("reset"))
	assert.Equal(t, KindTransient, Classify(transient))

	// Wrapped classified errors keep their kind.
	wrapped := fmt.Errorf("embed batch 3: %w", rateLimited)
	assert.Equal(t, KindRateLimited, Classify(wrapped))

	// Anything not positively identified as rate limiting is transient.
	assert.Equal(t, KindTransient, Classify(errors.New("unknown")))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "rate_limited", KindRateLimited.String())
	assert.Equal(t, "transient", KindTransient.String())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransientError("request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transient")
	assert.Contains(t, err.Error(), "request failed")
}
