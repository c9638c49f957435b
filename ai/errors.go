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


package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an embedding request failure. The pipeline's retry
// loop picks its backoff policy from the kind.
type ErrorKind int

const (
	// KindTransient covers malformed responses, network faults, non-success
	// statuses not identified as rate limiting, and error payloads embedded
	// in otherwise-successful response envelopes. Retried after a fixed
	// short delay.
	KindTransient ErrorKind = iota

	// KindRateLimited means the remote signaled the caller is sending
	// requests too fast. Retried with exponential backoff.
	KindRateLimited
)

// String returns the kind's manifest name, used in FailureRecords.
func (k ErrorKind) String() string {
	if k == KindRateLimited {
		return "rate_limited"
	}
	return "transient"
}

// Error is a classified embedding request failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding request failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("embedding request failed (%s): %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewRateLimitedError builds a rate-limited Error.
func NewRateLimitedError(message string, cause error) *Error {
	return &Error{Kind: KindRateLimited, Message: message, Err: cause}
}

// NewTransientError builds a transient Error.
func NewTransientError(message string, cause error) *Error {
	return &Error{Kind: KindTransient, Message: message, Err: cause}
}

// Classify maps an arbitrary error onto an ErrorKind. Errors not positively
// identified as rate limiting are transient.
func Classify(err error) ErrorKind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindTransient
}
