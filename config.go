package docgrab

import (
	"net/url"
	"strings"
	"time"
)

// Defaults for a run against the GESP past-papers listing.
const (
	DefaultPageURL        = "https://gesp.ccf.org.cn/101/1010/index.html"
	DefaultOutputDir      = "gesp_pdfs"
	DefaultPrefix         = "GESP"
	DefaultExtension      = ".pdf"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultAcceptLanguage = "zh-CN,zh;q=0.9,en;q=0.8"
)

// Backend names accepted in Config.Backends.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
	BackendHTTP     = "http"
)

// DefaultKeywords are the anchor text markers ("details", "past exam")
// that select a link even when its href does not name a document.
func DefaultKeywords() []string {
	return []string{"详情", "真题"}
}

// DefaultBackends returns the escalation order, most capable first.
func DefaultBackends() []string {
	return []string{BackendRod, BackendChromedp, BackendHTTP}
}

// Config holds everything a run needs. It is built once by the caller and
// passed to each component at construction.
type Config struct {
	PageURL   string
	OutputDir string

	// Prefix and Extension shape derived filenames and the document marker
	// searched for during extraction.
	Prefix    string
	Extension string
	Keywords  []string

	UserAgent      string
	AcceptLanguage string
	Referer        string

	// CloudflareBypass enables a browser-like TLS fingerprint for the
	// static fetch and document downloads.
	CloudflareBypass bool

	Delay           time.Duration
	RenderTimeout   time.Duration
	DownloadTimeout time.Duration

	Backends []string
	Settle   Settle
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() Config {
	return Config{
		PageURL:         DefaultPageURL,
		OutputDir:       DefaultOutputDir,
		Prefix:          DefaultPrefix,
		Extension:       DefaultExtension,
		Keywords:        DefaultKeywords(),
		UserAgent:       DefaultUserAgent,
		AcceptLanguage:  DefaultAcceptLanguage,
		Delay:           time.Second,
		RenderTimeout:   30 * time.Second,
		DownloadTimeout: 60 * time.Second,
		Backends:        DefaultBackends(),
		Settle:          DefaultSettle(),
	}
}

// Validate returns an error if the config cannot drive a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.PageURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "page URL must be an absolute http(s) URL: %q", c.PageURL)
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.Marker() == "." {
		return Errorf(EINVALID, "document extension required")
	}
	if len(c.Backends) == 0 {
		return Errorf(EINVALID, "at least one backend required")
	}
	for _, b := range c.Backends {
		switch b {
		case BackendRod, BackendChromedp, BackendHTTP:
		default:
			return Errorf(EINVALID, "unknown backend %q", b)
		}
	}
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	return nil
}

// Marker returns the lowercased extension with a leading dot, e.g. ".pdf".
func (c *Config) Marker() string {
	return NormalizeExtension(c.Extension)
}

// RefererURL returns the Referer sent with document requests. Unless set
// explicitly it is the origin of the page URL.
func (c *Config) RefererURL() string {
	if c.Referer != "" {
		return c.Referer
	}
	u, err := url.Parse(c.PageURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}

// NormalizeExtension lowercases ext and makes sure it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
