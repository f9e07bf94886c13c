// Package slog provides logging decorators for docgrab services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

// Ensure LoggingRenderer implements docgrab.Renderer.
var _ docgrab.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next    docgrab.Renderer
	backend string
	logger  *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer. backend names the
// wrapped renderer in log records.
func NewLoggingRenderer(next docgrab.Renderer, backend string, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, backend: backend, logger: logger}
}

// Render logs the URL being rendered and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"backend", r.backend,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
