package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// RetryOptions bounds how RetryingClient retries transient failures.
type RetryOptions struct {
	// MaxRetries is the number of extra attempts after the first one.
	MaxRetries uint
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
}

// DefaultRetryOptions allows one retry with a 20s per-attempt timeout.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:      1,
		AttemptTimeout:  20 * time.Second,
		InitialInterval: 500 * time.Millisecond,
	}
}

// RetryingClient decorates a Client with a per-attempt timeout and bounded exponential backoff.
// Only transport failures that IsRetryable accepts are retried.
type RetryingClient struct {
	inner  Client
	opts   RetryOptions
	logger *zap.Logger
}

// NewRetryingClient wraps inner
func NewRetryingClient(inner Client, opts RetryOptions, logger *zap.Logger) *RetryingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingClient{inner: inner, opts: opts, logger: logger}
}

// Complete calls the wrapped client, retrying transient failures
func (c *RetryingClient) Complete(ctx context.Context, prompt, credential string, tier ModelTier) (string, error) {
	attempt := 0
	op := func() (string, error) {
		attempt++
		attemptCtx := ctx
		if c.opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.opts.AttemptTimeout)
			defer cancel()
		}

		out, err := c.inner.Complete(attemptCtx, prompt, credential, tier)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil || !IsRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	b := backoff.NewExponentialBackOff()
	if c.opts.InitialInterval > 0 {
		b.InitialInterval = c.opts.InitialInterval
	}

	notify := func(err error, next time.Duration) {
		c.logger.Warn("chat completion attempt failed, retrying",
			zap.String("tier", string(tier)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", next),
			zap.Error(err),
		)
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.opts.MaxRetries+1),
		backoff.WithNotify(notify),
	)
}

// GetModel returns the wrapped client's model for tier
func (c *RetryingClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client
func (c *RetryingClient) Close() error {
	return c.inner.Close()
}
