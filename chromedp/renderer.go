// Package chromedp implements docgrab.Renderer on top of the Chrome
// DevTools Protocol via chromedp. It is lighter than the rod renderer and
// serves as the second escalation step.
package chromedp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/fwojciec/docgrab"
)

// DefaultRenderTimeout is the default timeout for a single page render.
const DefaultRenderTimeout = 30 * time.Second

// pollInterval is how often the resource count is sampled while waiting
// for the page to go quiet.
const pollInterval = 250 * time.Millisecond

const resourceCountJS = `performance.getEntriesByType('resource').length`

var _ docgrab.Renderer = (*Renderer)(nil)

// Renderer renders pages in a headless Chrome tab. The browser process is
// started on the first Render call and shared by subsequent calls.
type Renderer struct {
	mu            sync.Mutex
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	closed        bool

	timeout   time.Duration
	settle    docgrab.Settle
	userAgent string
	execPath  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout sets the timeout for a page render.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithSettle sets the settle-and-scroll sequence.
func WithSettle(s docgrab.Settle) Option {
	return func(r *Renderer) {
		r.settle = s
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(r *Renderer) {
		r.userAgent = ua
	}
}

// WithExecPath sets the Chrome executable. Defaults to chromedp's lookup.
func WithExecPath(path string) Option {
	return func(r *Renderer) {
		r.execPath = path
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		timeout: DefaultRenderTimeout,
		settle:  docgrab.DefaultSettle(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render loads the URL in a fresh tab and returns the outer HTML of the
// document once the page has settled.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browserCtx, err := r.ensureBrowser()
	if err != nil {
		return "", err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()
	// The tab context derives from the browser, not the caller.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(r.waitQuiet),
		chromedp.ActionFunc(r.scroll),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// waitQuiet polls the number of loaded resources until two consecutive
// samples agree or the idle budget runs out.
func (r *Renderer) waitQuiet(ctx context.Context) error {
	if r.settle.Idle <= 0 {
		return nil
	}
	deadline := time.Now().Add(r.settle.Idle)
	last := -1
	for time.Now().Before(deadline) {
		var n int
		if err := chromedp.Evaluate(resourceCountJS, &n).Do(ctx); err != nil {
			return err
		}
		if n == last {
			return nil
		}
		last = n
		if err := sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) scroll(ctx context.Context) error {
	for i := 0; i < r.settle.Rounds; i++ {
		if err := chromedp.Evaluate(docgrab.ScrollToBottomJS, nil).Do(ctx); err != nil {
			return fmt.Errorf("scrolling: %w", err)
		}
		if err := sleep(ctx, r.settle.Pause); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Renderer) ensureBrowser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, docgrab.Errorf(docgrab.EINVALID, "renderer is closed")
	}
	if r.browserCtx != nil {
		return r.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
	)
	if r.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.userAgent))
	}
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	// CDP event decoding noise is not actionable.
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))

	// Running with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, docgrab.Errorf(docgrab.EUNAVAILABLE, "starting browser: %v", err)
	}

	r.browserCtx = browserCtx
	r.cancelBrowser = cancelBrowser
	r.cancelAlloc = cancelAlloc
	return browserCtx, nil
}

// Close shuts the browser down. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.cancelBrowser != nil {
		r.cancelBrowser()
		r.cancelAlloc()
		r.browserCtx = nil
	}
	return nil
}
