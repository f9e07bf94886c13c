package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/crawl"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the grab command.
func (c *GrabCmd) Run(deps *Dependencies) error {
	if c.Preview {
		return c.runPreview(deps)
	}
	return c.runGrab(deps)
}

func (c *GrabCmd) runPreview(deps *Dependencies) error {
	d, err := deps.Pipeline.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Found %d documents via %s\n", len(d.Candidates), d.Backend)
	if len(d.Candidates) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"#", "File", "URL", "Found in"})
	for i, link := range d.Candidates {
		t.AppendRow(table.Row{i + 1, d.Filenames[i], link.URL, link.Channel})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func (c *GrabCmd) runGrab(deps *Dependencies) error {
	p := deps.Pipeline
	p.Discovered = func(d *crawl.Discovery) {
		fmt.Fprintf(deps.Stdout, "Found %d documents via %s\n", len(d.Candidates), d.Backend)
	}
	p.Progress = func(pr docgrab.Progress) {
		o := pr.Outcome
		name := filepath.Base(o.Path)
		switch o.Status {
		case docgrab.StatusSucceeded:
			fmt.Fprintf(deps.Stdout, "[%d/%d] saved   %s (%s)\n", pr.Completed, pr.Total, name, crawl.FormatBytes(o.BytesWritten))
		case docgrab.StatusSkippedExisting:
			fmt.Fprintf(deps.Stdout, "[%d/%d] skipped %s\n", pr.Completed, pr.Total, name)
		case docgrab.StatusFailed:
			fmt.Fprintf(deps.Stdout, "[%d/%d] failed  %s\n", pr.Completed, pr.Total, name)
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", crawl.TruncateURL(o.Link.URL, 60), o.Detail())
		}
		if o.Warning != "" {
			fmt.Fprintf(deps.Stderr, "  warning: %s\n", o.Warning)
		}
	}

	s := p.Run(deps.Ctx, c.URL)
	if s.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docgrab.ErrorMessage(s.Err))
		return s.Err
	}

	fmt.Fprintf(deps.Stdout, "Done: %d succeeded, %d failed, %d skipped (%s)\n",
		s.Succeeded, s.Failed, s.Skipped, crawl.FormatBytes(s.BytesWritten()))
	fmt.Fprintf(deps.Stdout, "Output: %s\n", s.OutputDir)
	return nil
}
