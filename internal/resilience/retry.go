// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int                          // Maximum number of retry attempts
	InitialInterval time.Duration                // Delay before the first retry
	MaxInterval     time.Duration                // Upper bound on any single delay
	Multiplier      float64                      // Exponential backoff multiplier (e.g. 2.0 doubles each attempt)
	Jitter          bool                         // Add up to 25% random jitter to spread retries
	OnRetry         func(attempt int, err error) // Optional callback invoked before each retry
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
	}
}

// ServiceRetryConfig returns the retry-once configuration used for calls to
// the extraction service: one retry after a short pause, then give up.
func ServiceRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      1,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		Multiplier:      1.0,
	}
}

// backoffDelay computes the pause before the given retry attempt (1-based):
// InitialInterval * Multiplier^(attempt-1), plus optional jitter, capped at
// MaxInterval.
func backoffDelay(config RetryConfig, attempt int) time.Duration {
	delay := float64(config.InitialInterval)
	for i := 1; i < attempt; i++ {
		delay *= config.Multiplier
	}
	if config.Jitter {
		delay *= 1 + 0.25*rand.Float64()
	}
	if d := time.Duration(delay); d < config.MaxInterval {
		return d
	}
	return config.MaxInterval
}

// RetryableOperation represents an operation that can be retried.
type RetryableOperation func(ctx context.Context) error

// RetryWithBackoff executes an operation, retrying retryable failures with
// exponential backoff. Permanent errors (per ClassifyError) are returned
// immediately; context cancellation stops waiting between attempts.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation RetryableOperation) error {
	var lastErr error

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffDelay(config, attempt)):
			}
			if config.OnRetry != nil {
				config.OnRetry(attempt, lastErr)
			}
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !ClassifyError(lastErr).IsRetryable() {
			return lastErr
		}
		if attempt == config.MaxRetries {
			return lastErr
		}
	}
}

// RetryableFunc is a convenience type for retryable functions that return a value.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// RetryWithResult executes a function that returns a result and error with retry logic.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn RetryableFunc[T]) (T, error) {
	var result T
	err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
