// Package crawl orchestrates a docgrab run: render the page with the first
// backend that yields candidates, extract document links, and fetch them
// one at a time.
package crawl

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/google/uuid"
)

// Pipeline coordinates rendering, extraction and downloading.
type Pipeline struct {
	Backends   []Backend
	Extractor  docgrab.LinkExtractor
	Downloader docgrab.Downloader
	Store      docgrab.FileStore
	Namer      *docgrab.Namer
	Pacer      docgrab.Pacer
	OutputDir  string
	Logger     *slog.Logger

	// RetryDelays applies to the last backend only. Nil means
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Discovered, if set, is called once extraction has picked a backend
	// and before any download starts.
	Discovered func(*Discovery)

	// Progress, if set, is called after each candidate is processed.
	Progress docgrab.ProgressFunc
}

// Discovery is the result of the render and extract stages.
type Discovery struct {
	Backend    string
	Candidates []docgrab.CandidateLink
	Filenames  []string // parallel to Candidates
}

// Discover renders pageURL and extracts candidate links without
// downloading anything.
func (p *Pipeline) Discover(ctx context.Context, pageURL string) (*Discovery, error) {
	return p.discover(ctx, pageURL, p.logger())
}

// Run executes a full pass over pageURL. It always returns a summary;
// Summary.Err is set when the run could not get past rendering or the
// output directory could not be prepared. Per-document failures are
// reported in Summary.Outcomes and never abort the run.
func (p *Pipeline) Run(ctx context.Context, pageURL string) *docgrab.Summary {
	s := &docgrab.Summary{
		RunID:     uuid.NewString(),
		URL:       pageURL,
		OutputDir: p.OutputDir,
		Stage:     docgrab.StageStart,
	}
	logger := p.logger().With("run_id", s.RunID)
	logger.Info("run started", "url", pageURL, "out", p.OutputDir)

	dir, err := p.Store.EnsureDir(p.OutputDir)
	if err != nil {
		s.Err = err
		logger.Error("preparing output directory", "err", err)
		return s
	}
	s.OutputDir = dir

	d, err := p.discover(ctx, pageURL, logger)
	s.Stage = docgrab.StageRendered
	if err != nil {
		s.Err = err
		logger.Error("rendering failed", "err", err)
		return s
	}
	s.Backend = d.Backend

	s.Stage = docgrab.StageExtracted
	s.Candidates = len(d.Candidates)
	logger.Info("candidates extracted", "backend", d.Backend, "count", s.Candidates)
	if p.Discovered != nil {
		p.Discovered(d)
	}

	s.Stage = docgrab.StageFetching
	s.Outcomes = make([]*docgrab.Outcome, 0, len(d.Candidates))
	claimed := make(map[string]string, len(d.Candidates))
	for i, link := range d.Candidates {
		path := filepath.Join(dir, d.Filenames[i])

		var o *docgrab.Outcome
		if prev, ok := claimed[path]; ok {
			o = &docgrab.Outcome{
				Link:    link,
				Path:    path,
				Status:  docgrab.StatusSkippedExisting,
				Warning: "filename already used by " + prev,
			}
			logger.Warn("filename collision", "url", link.URL, "path", path, "first", prev)
		} else {
			claimed[path] = link.URL
			o = p.fetch(ctx, link, path)
		}

		s.Outcomes = append(s.Outcomes, o)
		if o.Status == docgrab.StatusFailed {
			logger.Warn("download failed", "url", link.URL, "err", o.Err)
		}
		if p.Progress != nil {
			p.Progress(docgrab.Progress{Outcome: o, Completed: i + 1, Total: len(d.Candidates)})
		}
	}

	s.Stage = docgrab.StageSummarized
	s.Tally()
	logger.Info("run finished",
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"skipped", s.Skipped,
		"bytes", s.BytesWritten(),
	)
	s.Stage = docgrab.StageDone
	return s
}

// fetch waits for the pacer and downloads one candidate. The pause before
// the next candidate starts once this download has returned.
func (p *Pipeline) fetch(ctx context.Context, link docgrab.CandidateLink, path string) *docgrab.Outcome {
	if p.Pacer == nil {
		return p.Downloader.Download(ctx, link, path)
	}
	if err := p.Pacer.Wait(ctx); err != nil {
		return &docgrab.Outcome{Link: link, Path: path, Status: docgrab.StatusFailed, Err: err}
	}
	defer p.Pacer.Done()
	return p.Downloader.Download(ctx, link, path)
}

// discover walks the backends in order. A backend that errors, or that
// renders a page with no candidates while a later backend remains, hands
// over to the next one. The last backend's HTML is accepted even without
// candidates; if it fails outright, the first zero-candidate rendering is
// used instead.
func (p *Pipeline) discover(ctx context.Context, pageURL string, logger *slog.Logger) (*Discovery, error) {
	if len(p.Backends) == 0 {
		return nil, docgrab.Errorf(docgrab.EINVALID, "no render backends configured")
	}

	var empty *Discovery
	var lastErr error
	for i, b := range p.Backends {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		last := i == len(p.Backends)-1
		logger.Debug("rendering", "backend", b.Name, "url", pageURL)

		var html string
		var err error
		if last {
			html, err = RenderWithRetry(ctx, pageURL, b.Renderer.Render, logger, p.retryDelays())
		} else {
			html, err = b.Renderer.Render(ctx, pageURL)
		}
		if err != nil {
			lastErr = err
			logger.Warn("backend failed", "backend", b.Name, "err", err)
			continue
		}

		links, err := p.Extractor.Extract(html, pageURL)
		if err != nil {
			lastErr = err
			logger.Warn("extraction failed", "backend", b.Name, "err", err)
			continue
		}

		d := &Discovery{Backend: b.Name, Candidates: links}
		if len(links) == 0 && !last {
			logger.Info("no candidates, escalating", "backend", b.Name, "next", p.Backends[i+1].Name)
			if empty == nil {
				empty = d
			}
			continue
		}
		return p.name(d), nil
	}

	if empty != nil {
		logger.Info("accepting rendering without candidates", "backend", empty.Backend)
		return p.name(empty), nil
	}
	return nil, docgrab.Errorf(docgrab.ERENDER, "no backend could render %s: %v", pageURL, lastErr)
}

func (p *Pipeline) name(d *Discovery) *Discovery {
	d.Filenames = make([]string, len(d.Candidates))
	for i, c := range d.Candidates {
		d.Filenames[i] = p.Namer.Derive(c.URL, c.Text)
	}
	return d
}

func (p *Pipeline) retryDelays() []time.Duration {
	if p.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return p.RetryDelays
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
