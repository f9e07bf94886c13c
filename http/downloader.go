package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/docgrab"
)

// DefaultDownloadTimeout bounds a whole document transfer, body included.
const DefaultDownloadTimeout = 60 * time.Second

// Ensure Downloader implements docgrab.Downloader at compile time.
var _ docgrab.Downloader = (*Downloader)(nil)

// Downloader streams documents into a docgrab.FileStore.
type Downloader struct {
	store   docgrab.FileStore
	client  *http.Client
	timeout time.Duration
	marker  string
	headers []Header
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadTimeout sets the timeout for a document transfer.
// Defaults to DefaultDownloadTimeout (60s) if not specified.
func WithDownloadTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithDownloadClient sets the HTTP client. Defaults to NewClient().
func WithDownloadClient(c *http.Client) DownloaderOption {
	return func(dl *Downloader) {
		dl.client = c
	}
}

// WithDownloadHeaders adds headers to document requests.
func WithDownloadHeaders(headers ...Header) DownloaderOption {
	return func(dl *Downloader) {
		dl.headers = append(dl.headers, headers...)
	}
}

// WithExpectedExtension sets the document extension used by the content
// type check. Defaults to ".pdf".
func WithExpectedExtension(ext string) DownloaderOption {
	return func(dl *Downloader) {
		dl.marker = docgrab.NormalizeExtension(ext)
	}
}

// NewDownloader creates a Downloader writing into store.
func NewDownloader(store docgrab.FileStore, opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		store:   store,
		timeout: DefaultDownloadTimeout,
		marker:  docgrab.DefaultExtension,
		headers: []Header{
			{Key: "User-Agent", Value: docgrab.DefaultUserAgent},
			{Key: "Accept", Value: "application/pdf,*/*"},
		},
	}
	for _, opt := range opts {
		opt(dl)
	}
	if dl.client == nil {
		dl.client = NewClient()
	}
	return dl
}

// Download fetches link into path unless path already exists.
func (dl *Downloader) Download(ctx context.Context, link docgrab.CandidateLink, path string) *docgrab.Outcome {
	outcome := &docgrab.Outcome{Link: link, Path: path}

	exists, err := dl.store.Exists(path)
	if err != nil {
		return fail(outcome, fmt.Errorf("checking %s: %w", path, err))
	}
	if exists {
		outcome.Status = docgrab.StatusSkippedExisting
		return outcome
	}

	ctx, cancel := context.WithTimeout(ctx, dl.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.URL, nil)
	if err != nil {
		return fail(outcome, docgrab.Errorf(docgrab.EINVALID, "invalid document URL %q: %v", link.URL, err))
	}
	setHeaders(req, dl.headers)

	resp, err := dl.client.Do(req)
	if err != nil {
		return fail(outcome, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(outcome, docgrab.Errorf(docgrab.EFETCH, "HTTP %d for %s", resp.StatusCode, link.URL))
	}

	if contentType := resp.Header.Get("Content-Type"); !dl.looksLikeDocument(contentType, link.URL) {
		outcome.Warning = fmt.Sprintf("response may not be a %s document (Content-Type: %s)",
			strings.TrimPrefix(dl.marker, "."), contentType)
	}

	n, err := dl.store.Write(ctx, path, resp.Body)
	if err != nil {
		return fail(outcome, err)
	}

	outcome.Status = docgrab.StatusSucceeded
	outcome.BytesWritten = n
	return outcome
}

// looksLikeDocument is advisory: a mismatch only produces a warning.
func (dl *Downloader) looksLikeDocument(contentType, rawURL string) bool {
	kind := strings.TrimPrefix(dl.marker, ".")
	return strings.Contains(strings.ToLower(contentType), kind) ||
		strings.HasSuffix(strings.ToLower(rawURL), dl.marker)
}

func fail(o *docgrab.Outcome, err error) *docgrab.Outcome {
	o.Status = docgrab.StatusFailed
	o.Err = err
	return o
}
