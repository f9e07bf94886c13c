package main

import (
	"context"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/crawl"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL             string          `arg:"" optional:"" default:"${default_url}" help:"Listing page to scan for documents"`
	Out             string          `short:"o" default:"${default_out}" env:"DOCGRAB_OUT" help:"Output directory"`
	Prefix          string          `default:"${default_prefix}" help:"Prefix for synthesized filenames"`
	Ext             string          `default:"${default_ext}" help:"Document extension to look for"`
	Delay           time.Duration   `default:"1s" env:"DOCGRAB_DELAY" help:"Minimum spacing between document requests"`
	RenderTimeout   time.Duration   `default:"30s" help:"Timeout per page render"`
	DownloadTimeout time.Duration   `default:"60s" help:"Timeout per document download"`
	Backends        []string        `default:"${default_backends}" sep:"," env:"DOCGRAB_BACKENDS" help:"Render backends in escalation order (rod, chromedp, http)"`
	Keyword         []string        `default:"${default_keywords}" help:"Anchor text marking a document link (repeatable)"`
	UserAgent       string          `default:"${default_user_agent}" env:"DOCGRAB_USER_AGENT" help:"User-Agent header"`
	Referer         string          `help:"Referer for document requests (default: origin of URL)"`
	CfBypass        bool            `name:"cloudflare-bypass" help:"Use a browser-like TLS fingerprint for plain HTTP requests"`
	Preview         bool            `short:"p" help:"List discovered documents without downloading"`
	Verbose         bool            `short:"v" help:"Enable debug logging"`
	Config          kong.ConfigFlag `placeholder:"FILE" help:"YAML file with flag defaults"`
}

func defaultVars() kong.Vars {
	return kong.Vars{
		"default_url":        docgrab.DefaultPageURL,
		"default_out":        docgrab.DefaultOutputDir,
		"default_prefix":     docgrab.DefaultPrefix,
		"default_ext":        docgrab.DefaultExtension,
		"default_backends":   docgrab.BackendRod + "," + docgrab.BackendChromedp + "," + docgrab.BackendHTTP,
		"default_keywords":   "详情,真题",
		"default_user_agent": docgrab.DefaultUserAgent,
	}
}

// config converts parsed flags into a run configuration.
func (c *CLI) config() docgrab.Config {
	cfg := docgrab.DefaultConfig()
	cfg.PageURL = c.URL
	cfg.OutputDir = c.Out
	cfg.Prefix = c.Prefix
	cfg.Extension = c.Ext
	cfg.Keywords = c.Keyword
	cfg.UserAgent = c.UserAgent
	cfg.Referer = c.Referer
	cfg.CloudflareBypass = c.CfBypass
	cfg.Delay = c.Delay
	cfg.RenderTimeout = c.RenderTimeout
	cfg.DownloadTimeout = c.DownloadTimeout
	cfg.Backends = c.Backends
	return cfg
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Pipeline *crawl.Pipeline
}

// GrabCmd handles the main download operation.
type GrabCmd struct {
	URL     string
	Preview bool
}
