// Package http provides the static-fetch docgrab.Renderer and the streaming
// docgrab.Downloader. Both share a cookie-aware client so that cookies set
// while loading the page are sent with document requests.
package http

import (
	"net/http"
	"net/http/cookiejar"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"golang.org/x/net/publicsuffix"
)

// ClientOption configures the client returned by NewClient.
type ClientOption func(*clientConfig)

type clientConfig struct {
	cloudflare bool
}

// WithCloudflareBypass makes the client present a browser-like TLS
// handshake and fills in browser headers the request does not set. Some
// sites behind Cloudflare reject Go's default fingerprint.
func WithCloudflareBypass() ClientOption {
	return func(c *clientConfig) {
		c.cloudflare = true
	}
}

// NewClient returns an http.Client with a cookie jar. Timeouts are applied
// per request by the Renderer and Downloader.
func NewClient(opts ...ClientOption) *http.Client {
	var cfg clientConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// cookiejar.New never returns an error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	client := &http.Client{Jar: jar}
	if cfg.cloudflare {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		client.Transport = cloudflarebp.AddCloudFlareByPass(transport)
	}
	return client
}

// Header is a request header applied to every request.
type Header struct {
	Key   string
	Value string
}

func setHeaders(req *http.Request, headers []Header) {
	for _, h := range headers {
		if h.Value != "" {
			req.Header.Set(h.Key, h.Value)
		}
	}
}
