package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/chromedp"
	"github.com/fwojciec/docgrab/crawl"
	"github.com/fwojciec/docgrab/fs"
	"github.com/fwojciec/docgrab/goquery"
	dghttp "github.com/fwojciec/docgrab/http"
	"github.com/fwojciec/docgrab/rod"
	dgslog "github.com/fwojciec/docgrab/slog"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigPaths are YAML files consulted for flag defaults, in order.
	// Missing files are ignored.
	ConfigPaths []string

	// Now is the run clock used for fallback filenames.
	Now func() time.Time

	// RetryDelays overrides the backoff for the last render backend.
	RetryDelays []time.Duration
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"docgrab.yaml"},
		Now:         time.Now,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docgrab"),
		kong.Description("Discover and download the documents linked from a listing page"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars(defaultVars()),
		kong.Configuration(YAML, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg := cli.config()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docgrab.ErrorMessage(err))
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	p := m.newPipeline(cfg, logger)
	defer func() {
		if err := crawl.CloseBackends(p.Backends); err != nil {
			logger.Warn("closing renderers", "err", err)
		}
	}()

	cmd := &GrabCmd{
		URL:     cfg.PageURL,
		Preview: cli.Preview,
	}
	return cmd.Run(&Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Pipeline: p,
	})
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newPipeline wires the services for cfg.
func (m *Main) newPipeline(cfg docgrab.Config, logger *slog.Logger) *crawl.Pipeline {
	// One client so that cookies picked up while loading the page are sent
	// with document requests.
	var clientOpts []dghttp.ClientOption
	if cfg.CloudflareBypass {
		clientOpts = append(clientOpts, dghttp.WithCloudflareBypass())
	}
	client := dghttp.NewClient(clientOpts...)

	store := fs.NewStore()
	downloader := dghttp.NewDownloader(store,
		dghttp.WithDownloadClient(client),
		dghttp.WithDownloadTimeout(cfg.DownloadTimeout),
		dghttp.WithExpectedExtension(cfg.Extension),
		dghttp.WithDownloadHeaders(
			dghttp.Header{Key: "User-Agent", Value: cfg.UserAgent},
			dghttp.Header{Key: "Accept-Language", Value: cfg.AcceptLanguage},
			dghttp.Header{Key: "Referer", Value: cfg.RefererURL()},
		),
	)

	backends := make([]crawl.Backend, 0, len(cfg.Backends))
	for _, name := range cfg.Backends {
		var r docgrab.Renderer
		switch name {
		case docgrab.BackendRod:
			r = rod.NewRenderer(
				rod.WithRenderTimeout(cfg.RenderTimeout),
				rod.WithSettle(cfg.Settle),
				rod.WithUserAgent(cfg.UserAgent),
			)
		case docgrab.BackendChromedp:
			r = chromedp.NewRenderer(
				chromedp.WithRenderTimeout(cfg.RenderTimeout),
				chromedp.WithSettle(cfg.Settle),
				chromedp.WithUserAgent(cfg.UserAgent),
			)
		case docgrab.BackendHTTP:
			r = dghttp.NewRenderer(
				dghttp.WithRenderClient(client),
				dghttp.WithRenderTimeout(cfg.RenderTimeout),
				dghttp.WithRenderHeaders(
					dghttp.Header{Key: "User-Agent", Value: cfg.UserAgent},
					dghttp.Header{Key: "Accept-Language", Value: cfg.AcceptLanguage},
				),
			)
		}
		backends = append(backends, crawl.Backend{
			Name:     name,
			Renderer: dgslog.NewLoggingRenderer(r, name, logger),
		})
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	return &crawl.Pipeline{
		Backends: backends,
		Extractor: dgslog.NewLoggingExtractor(
			goquery.NewExtractor(
				goquery.WithMarker(cfg.Extension),
				goquery.WithKeywords(cfg.Keywords...),
			),
			logger,
		),
		Downloader: dgslog.NewLoggingDownloader(downloader, logger),
		Store:      store,
		Namer:      docgrab.NewNamer(cfg.Prefix, cfg.Extension, now()),
		Pacer:      crawl.NewPacer(cfg.Delay),
		OutputDir:  cfg.OutputDir,
		Logger:     logger,

		RetryDelays: m.RetryDelays,
	}
}
