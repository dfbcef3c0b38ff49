// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 3}, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_RetriesOnTransientError(t *testing.T) {
	calls := 0
	transient := NewTransientError("temporary failure", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := NewPermanentError("permanent failure", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      5,
		InitialInterval: time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		return permanent
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retries on permanent error), got %d", calls)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	transient := NewTransientError("always fails", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		return transient
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 {
		t.Errorf("expected 4 calls (initial + 3 retries), got %d", calls)
	}
}

func TestServiceRetryConfig_RetryOnce(t *testing.T) {
	calls := 0
	transient := NewTransientError("service hiccup", nil)

	err := RetryWithBackoff(context.Background(), ServiceRetryConfig(), func(ctx context.Context) error {
		calls++
		return transient
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (retry-once semantics), got %d", calls)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Second,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		return NewTransientError("fail", nil)
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation stops retries, got %d", calls)
	}
}

func TestRetryWithResult(t *testing.T) {
	calls := 0
	result, err := RetryWithResult(context.Background(), RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", NewTransientError("not yet", nil)
		}
		return "extracted text", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "extracted text" {
		t.Errorf("expected result to survive retry wrapping, got %q", result)
	}
}

func TestClassifyError_ServiceUnavailable(t *testing.T) {
	err := errors.New("connection refused")
	classified := ClassifyError(err)
	if classified.Type != ErrorTypeServiceUnavailable {
		t.Errorf("expected ServiceUnavailable, got %v", classified.Type)
	}
	if !classified.IsRetryable() {
		t.Error("service unavailable errors should be retryable")
	}
}

func TestClassifyError_Unsupported(t *testing.T) {
	err := errors.New("unsupported file format")
	classified := ClassifyError(err)
	if classified.Type != ErrorTypePermanent {
		t.Errorf("expected Permanent, got %v", classified.Type)
	}
	if classified.IsRetryable() {
		t.Error("unsupported format errors should not be retryable")
	}
}

func TestClassifyError_AlreadyClassified(t *testing.T) {
	original := NewPermanentError("already classified", nil)
	classified := ClassifyError(original)
	if classified != original {
		t.Error("expected classification to be idempotent")
	}
}

func TestIsRetryable_NilError(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
}
