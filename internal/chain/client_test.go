package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetryAttemptCount(t *testing.T) {
	transient := errors.New("transient")
	attempts := 0
	err := withRetry(context.Background(), RetryPolicy{MaxRetries: 3, BaseBackoff: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return transient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	transient := errors.New("transient")
	attempts := 0
	err := withRetry(context.Background(), RetryPolicy{MaxRetries: 2, BaseBackoff: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("expected the last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want MaxRetries+1", attempts)
	}
}

func TestWithRetryZeroPolicySingleAttempt(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), RetryPolicy{}, func(ctx context.Context) error {
		attempts++
		return errors.New("boom")
	})
	if err == nil || attempts != 1 {
		t.Fatalf("zero policy: attempts = %d, err = %v", attempts, err)
	}
}

func TestWithRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := withRetry(ctx, RetryPolicy{MaxRetries: 5, BaseBackoff: time.Hour}, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}
