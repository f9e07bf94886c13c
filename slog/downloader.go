package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with logging. Failures are logged
// at warn level, everything else at info.
type LoggingDownloader struct {
	next   docgrab.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next docgrab.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the outcome.
func (d *LoggingDownloader) Download(ctx context.Context, link docgrab.CandidateLink, path string) *docgrab.Outcome {
	begin := time.Now()
	o := d.next.Download(ctx, link, path)

	level := slog.LevelInfo
	if o.Status == docgrab.StatusFailed {
		level = slog.LevelWarn
	}
	attrs := []any{
		"url", link.URL,
		"path", path,
		"status", o.Status,
		"bytes", o.BytesWritten,
		"duration", time.Since(begin),
	}
	if o.Warning != "" {
		attrs = append(attrs, "warning", o.Warning)
	}
	if o.Err != nil {
		attrs = append(attrs, "err", o.Err)
	}
	d.logger.Log(ctx, level, "download", attrs...)
	return o
}
