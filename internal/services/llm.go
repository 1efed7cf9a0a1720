package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CompletionRequest is one system+user prompt pair sent to a text-completion backend.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer is the opaque text-completion collaborator. Implementations retry
// transient failures themselves; a returned error means the backend is unreachable.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Model() string
}

// RetryPolicy bounds the attempts made for one completion.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// withRetry calls fn until it succeeds, attempts run out or ctx ends. The delay
// doubles after each failed attempt. Every attempt waits on the limiter first.
func withRetry(ctx context.Context, log *zap.Logger, limiter *rate.Limiter, policy RetryPolicy, fn func(context.Context) (string, error)) (string, error) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limiter: %w", err)
			}
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		if attempt == attempts {
			break
		}

		log.Warn("completion attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-timer.C:
			}
			delay *= 2
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// NewLimiter builds the shared token bucket for one backend. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
