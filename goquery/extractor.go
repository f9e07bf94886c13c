// Package goquery implements docgrab.LinkExtractor on top of goquery.
package goquery

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docgrab"
)

// ScriptText is the display text given to links found in script literals.
const ScriptText = "Script found PDF"

// jsonArrayRe matches bracket-delimited substrings that may hold a JSON array.
// Like the rest of the script scanning it works line by line.
var jsonArrayRe = regexp.MustCompile(`\[.*?\]`)

var _ docgrab.LinkExtractor = (*Extractor)(nil)

// Extractor finds document links in anchors and inline scripts.
type Extractor struct {
	marker   string
	keywords []string
	literals *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMarker sets the document extension searched for. Defaults to ".pdf".
func WithMarker(ext string) Option {
	return func(e *Extractor) {
		e.marker = docgrab.NormalizeExtension(ext)
	}
}

// WithKeywords sets the anchor text markers that select a link even when
// its href does not mention the extension. Defaults to docgrab.DefaultKeywords.
func WithKeywords(keywords ...string) Option {
	return func(e *Extractor) {
		e.keywords = keywords
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		marker:   docgrab.DefaultExtension,
		keywords: docgrab.DefaultKeywords(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.literals = regexp.MustCompile(`(?i)["']([^"']*` + regexp.QuoteMeta(e.marker) + `[^"']*)["']`)
	return e
}

// Extract parses HTML and returns candidate document links from three
// channels, scanned in order: anchors, quoted string literals in inline
// scripts, and JSON arrays embedded in inline scripts.
//
// Links are deduplicated by resolved absolute URL. The first occurrence
// keeps its text and channel, and results follow first-seen order.
func (e *Extractor) Extract(html string, baseURL string) ([]docgrab.CandidateLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docgrab.Errorf(docgrab.EINVALID, "failed to parse HTML: %v", err)
	}

	c := &collector{base: base, seen: make(map[string]struct{})}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if !e.matchesAnchor(base, href, text) {
			return
		}
		c.add(href, text, docgrab.ChannelAnchor)
	})

	var scripts []string
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if body := sel.Text(); strings.TrimSpace(body) != "" {
			scripts = append(scripts, body)
		}
	})

	for _, body := range scripts {
		for _, m := range e.literals.FindAllStringSubmatch(body, -1) {
			// JSON-encoded scripts escape slashes as "\/".
			c.add(strings.ReplaceAll(m[1], `\/`, "/"), ScriptText, docgrab.ChannelScriptString)
		}
	}

	for _, body := range scripts {
		e.scanJSON(c, body)
	}

	return c.links, nil
}

// matchesAnchor reports whether an anchor points at a document or is
// labelled with one of the keywords.
func (e *Extractor) matchesAnchor(base *url.URL, href, text string) bool {
	if strings.Contains(strings.ToLower(href), e.marker) {
		return true
	}
	if ref, err := url.Parse(href); err == nil {
		resolved := base.ResolveReference(ref)
		if strings.Contains(strings.ToLower(resolved.Path), e.marker) ||
			strings.Contains(strings.ToLower(resolved.RawQuery), e.marker) {
			return true
		}
	}
	for _, kw := range e.keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// scanJSON parses every bracketed substring of a script as JSON. Arrays of
// objects contribute each string value that ends with the marker, in the
// order the keys appear; anything that does not parse is skipped because
// pages make no schema promises.
func (e *Extractor) scanJSON(c *collector, body string) {
	for _, raw := range jsonArrayRe.FindAllString(body, -1) {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			continue
		}
		for _, item := range items {
			for _, f := range stringFields(item) {
				if strings.HasSuffix(strings.ToLower(f.value), e.marker) {
					c.add(f.value, "JSON: "+f.key, docgrab.ChannelScriptJSON)
				}
			}
		}
	}
}

type field struct {
	key, value string
}

// stringFields returns the string-valued members of a JSON object in
// document order. Anything other than an object yields nothing.
func stringFields(raw json.RawMessage) []field {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fields
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return fields
		}
		if s, ok := v.(string); ok {
			fields = append(fields, field{key: key, value: s})
		}
	}
	return fields
}

// collector accumulates links in first-seen order.
type collector struct {
	base  *url.URL
	seen  map[string]struct{}
	links []docgrab.CandidateLink
}

func (c *collector) add(href, text string, channel docgrab.Channel) {
	resolved := resolveURL(c.base, href)
	if resolved == "" {
		return
	}
	if _, ok := c.seen[resolved]; ok {
		return
	}
	c.seen[resolved] = struct{}{}
	c.links = append(c.links, docgrab.CandidateLink{
		URL:     resolved,
		Text:    text,
		Channel: channel,
	})
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed, is not a hierarchical
// http(s) URL, or if the resolved URL is the page itself after stripping
// the fragment.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Opaque != "" || resolved.Host == "" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
