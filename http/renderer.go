package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docgrab"
	"golang.org/x/net/html/charset"
)

// DefaultRenderTimeout is the default timeout for page requests.
const DefaultRenderTimeout = 30 * time.Second

// Ensure Renderer implements docgrab.Renderer at compile time.
var _ docgrab.Renderer = (*Renderer)(nil)

// Renderer retrieves page HTML with a plain GET request.
// Unlike rod.Renderer, this does not execute JavaScript; it is the backend
// of last resort and is always available.
type Renderer struct {
	client  *http.Client
	timeout time.Duration
	headers []Header
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRenderTimeout sets the timeout for page requests.
// Defaults to DefaultRenderTimeout (30s) if not specified.
func WithRenderTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithRenderClient sets the HTTP client. Defaults to NewClient().
func WithRenderClient(c *http.Client) RendererOption {
	return func(r *Renderer) {
		r.client = c
	}
}

// WithRenderHeaders adds headers to page requests.
func WithRenderHeaders(headers ...Header) RendererOption {
	return func(r *Renderer) {
		r.headers = append(r.headers, headers...)
	}
}

// NewRenderer creates a new HTTP-based Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		timeout: DefaultRenderTimeout,
		headers: []Header{
			{Key: "User-Agent", Value: docgrab.DefaultUserAgent},
			{Key: "Accept", Value: "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
			{Key: "Accept-Language", Value: docgrab.DefaultAcceptLanguage},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = NewClient()
	}
	return r
}

// Render returns the response body for the URL, decoded to UTF-8.
// The body is returned whatever the status code; only transport failures
// are errors.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docgrab.Errorf(docgrab.EINVALID, "invalid page URL %q: %v", url, err)
	}
	setHeaders(req, r.headers)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type")); err == nil {
		body = decoded
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Close releases resources. For the HTTP renderer this is a no-op since
// http.Client doesn't require explicit cleanup.
func (r *Renderer) Close() error {
	return nil
}
