package adfmd

import (
	"context"
	"errors"
	"time"

	"github.com/rgonek/adfmd/converter"
	"github.com/rgonek/adfmd/mdconverter"
)

// RetryStrategy selects what happens after the attempt budget is exhausted.
type RetryStrategy string

const (
	// RetryBestEffort reruns the final attempt in non-strict mode so the
	// caller still gets a usable result.
	RetryBestEffort RetryStrategy = "best-effort"

	// RetryFailFast returns the last error.
	RetryFailFast RetryStrategy = "fail-fast"
)

// RetryConfig bounds the retry loop. Retries exist for transient failures
// injected by callers (flaky I/O around a conversion), not for correctness
// bugs; resource-limit errors and context cancellation never retry.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	Strategy   RetryStrategy
}

func (c RetryConfig) applyDefaults() RetryConfig {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Delay == 0 {
		c.Delay = 100 * time.Millisecond
	}
	if c.Strategy == "" {
		c.Strategy = RetryFailFast
	}
	return c
}

// WithRetry runs fn up to MaxRetries times with a fixed delay between
// attempts. Under RetryBestEffort the caller's fallback runs after the
// budget is spent.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error), fallback func(context.Context) (T, error)) (T, error) {
	cfg = cfg.applyDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(cfg.Delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if mdconverter.IsResourceLimit(err) {
			return zero, err
		}
	}

	if cfg.Strategy == RetryBestEffort && fallback != nil {
		return fallback(ctx)
	}
	return zero, errors.Join(ErrRetriesExhausted, lastErr)
}

// MarkdownToADFWithRetry wraps MarkdownToADF in the retry loop. Under
// RetryBestEffort the final fallback attempt runs non-strict, which cannot
// fail structurally.
func MarkdownToADFWithRetry(ctx context.Context, markdown string, opts Options, cfg RetryConfig) (converter.Doc, error) {
	return WithRetry(ctx, cfg,
		func(ctx context.Context) (converter.Doc, error) {
			return MarkdownToADF(ctx, markdown, opts)
		},
		func(ctx context.Context) (converter.Doc, error) {
			relaxed := opts
			relaxed.Strict = false
			return MarkdownToADF(ctx, markdown, relaxed)
		})
}
