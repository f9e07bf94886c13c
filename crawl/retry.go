package crawl

import (
	"context"
	"log/slog"
	"time"
)

// RenderFunc is the signature for a render function.
type RenderFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for render retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// RenderWithRetry calls render until it succeeds, sleeping delays[i] before
// attempt i+2. With an empty delays slice render is called exactly once.
// The logger, if provided, receives a warning for each retry.
func RenderWithRetry(ctx context.Context, url string, render RenderFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := render(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Warn("retrying render", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}
