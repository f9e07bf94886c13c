// Package rod implements docgrab.Renderer with full Chrome browser
// automation through go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderTimeout is the default timeout for a single page render,
// settle sequence included.
const DefaultRenderTimeout = 30 * time.Second

// requestIdleWindow is how long the page must go without network requests
// to count as idle.
const requestIdleWindow = 500 * time.Millisecond

// Ensure Renderer implements docgrab.Renderer at compile time.
var _ docgrab.Renderer = (*Renderer)(nil)

// Renderer retrieves rendered HTML from URLs using Chrome browser automation.
// The browser is launched on the first Render call, so constructing a
// Renderer never fails; a missing browser surfaces as EUNAVAILABLE.
type Renderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool

	timeout   time.Duration
	settle    docgrab.Settle
	userAgent string
	bin       string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout sets the timeout for a page render.
// Defaults to DefaultRenderTimeout (30s) if not specified.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithSettle sets the settle-and-scroll sequence run after navigation.
// Defaults to docgrab.DefaultSettle().
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

// WithBin sets the Chrome binary. By default rod looks for a local
// installation and downloads Chromium if none is found.
func WithBin(path string) Option {
	return func(r *Renderer) {
		r.bin = path
	}
}

// NewRenderer creates a new Renderer. Close must be called when the
// Renderer is no longer needed.
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

// Render navigates to the URL, lets lazy content load, and returns the
// rendered HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if r.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.userAgent}); err != nil {
			return "", fmt.Errorf("setting user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for load: %w", err)
	}

	if err := r.settlePage(ctx, page); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading HTML: %w", err)
	}
	return html, nil
}

// settlePage waits for network quiescence, then scrolls to the bottom a
// fixed number of times so that lazy-loaded lists are populated.
func (r *Renderer) settlePage(ctx context.Context, page *rod.Page) error {
	if r.settle.Idle > 0 {
		idleCtx, cancel := context.WithTimeout(ctx, r.settle.Idle)
		wait := page.Context(idleCtx).WaitRequestIdle(requestIdleWindow, nil, nil, nil)
		wait()
		cancel()
	}

	for i := 0; i < r.settle.Rounds; i++ {
		if _, err := page.Eval("() => " + docgrab.ScrollToBottomJS); err != nil {
			return fmt.Errorf("scrolling: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.settle.Pause):
		}
	}
	return nil
}

// ensureBrowser launches the browser on first use.
func (r *Renderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, docgrab.Errorf(docgrab.EINVALID, "renderer is closed")
	}
	if r.browser != nil {
		return r.browser, nil
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if r.bin != "" {
		lnchr = lnchr.Bin(r.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, docgrab.Errorf(docgrab.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, docgrab.Errorf(docgrab.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	r.browser = browser
	r.launcher = lnchr
	return browser, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}
