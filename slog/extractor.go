package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docgrab"
)

var _ docgrab.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging of the
// per-channel candidate counts.
type LoggingExtractor struct {
	next   docgrab.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next docgrab.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(html, baseURL string) (links []docgrab.CandidateLink, err error) {
	defer func(begin time.Time) {
		counts := make(map[docgrab.Channel]int)
		for _, l := range links {
			counts[l.Channel]++
		}
		e.logger.Debug("extract",
			"base", baseURL,
			"candidates", len(links),
			"anchor", counts[docgrab.ChannelAnchor],
			"script_string", counts[docgrab.ChannelScriptString],
			"script_json", counts[docgrab.ChannelScriptJSON],
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, baseURL)
}
