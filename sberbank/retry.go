package sberbank

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"time"
)

// RetryPolicy controls RetryTransport. MaxRetries counts retries after the first
// attempt, so a call makes at most MaxRetries+1 requests.
type RetryPolicy struct {
	BaseDelay  time.Duration
	MaxRetries int
}

// RetryTransport wraps another Transport and retries network failures and 5xx answers.
type RetryTransport struct {
	inner      Transport
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryTransport(inner Transport, policy RetryPolicy) *RetryTransport {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryTransport{
		inner:      inner,
		baseDelay:  policy.BaseDelay,
		maxRetries: maxRetries,
	}
}

// Post with retry logic
func (r *RetryTransport) Post(ctx context.Context, baseURL, path string, form url.Values) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := r.inner.Post(ctx, baseURL, path, form)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries {
			timer := time.NewTimer(r.backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}

	if errors.Is(err, ErrUndecodableResponse) || errors.Is(err, context.Canceled) {
		return false
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryTransport) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(100)) * time.Millisecond

	return base + jitter
}
