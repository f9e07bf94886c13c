package docgrab

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// PeriodSuffix is appended to names synthesized from a year and period
// ("past exam").
const PeriodSuffix = "真题"

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	pathPeriodRe        = regexp.MustCompile(`/(\d{4})(\d{2,4})/`)
	yearRe              = regexp.MustCompile(`\d{4}`)
	monthRe             = regexp.MustCompile(`(\d+)月`)
)

// Namer derives filesystem-safe filenames for candidate links.
//
// Names depend only on the link and on the clock reading taken when the
// Namer was built, so the same (url, text) pair maps to the same name for
// the lifetime of a run. That is what makes the "already on disk" check
// meaningful across repeated runs.
type Namer struct {
	prefix string
	ext    string
	unix   int64
}

// NewNamer creates a Namer. ext is normalized to a lowercase extension with
// a leading dot; now is only used by the last-resort naming rule.
func NewNamer(prefix, ext string, now time.Time) *Namer {
	return &Namer{
		prefix: prefix,
		ext:    NormalizeExtension(ext),
		unix:   now.Unix(),
	}
}

// Derive maps a link to a filename. Rules, first match wins:
//
//  1. the URL path basename already ends with the extension: sanitized basename
//  2. a year and period can be found, first in the URL (a /YYYYPP/ path
//     segment, or a year plus "N月" month token), then in the text:
//     {prefix}_{year}_{period}_真题{ext}
//  3. {prefix}_pdf_{unix}_{hash}{ext}, where hash is derived from the URL
func (n *Namer) Derive(rawURL, text string) string {
	var urlPath string
	if u, err := url.Parse(rawURL); err == nil {
		urlPath = u.Path
	}

	// A path ending in "/" names a directory, not a file.
	if base := path.Base(urlPath); !strings.HasSuffix(urlPath, "/") && base != "." &&
		strings.HasSuffix(strings.ToLower(base), n.ext) {
		return unsafeFilenameChars.ReplaceAllString(base, "_")
	}

	if m := pathPeriodRe.FindStringSubmatch(urlPath); m != nil {
		return n.periodName(m[1], m[2])
	}

	decoded := rawURL
	if s, err := url.PathUnescape(rawURL); err == nil {
		decoded = s
	}
	for _, s := range []string{decoded, text} {
		if year, period, ok := yearAndMonth(s); ok {
			return n.periodName(year, period)
		}
	}

	return fmt.Sprintf("%s_pdf_%d_%08x%s", n.prefix, n.unix, xxhash.Sum64String(rawURL)>>32, n.ext)
}

func (n *Namer) periodName(year, period string) string {
	if len(period) < 2 {
		period = strings.Repeat("0", 2-len(period)) + period
	}
	return fmt.Sprintf("%s_%s_%s_%s%s", n.prefix, year, period, PeriodSuffix, n.ext)
}

// yearAndMonth finds a 4-digit year and a "N月" month token in s.
func yearAndMonth(s string) (year, month string, ok bool) {
	if s == "" {
		return "", "", false
	}
	y := yearRe.FindString(s)
	m := monthRe.FindStringSubmatch(s)
	if y == "" || m == nil {
		return "", "", false
	}
	return y, m[1], true
}
