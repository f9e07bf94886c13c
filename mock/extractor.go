package mock

import "github.com/fwojciec/docgrab"

var _ docgrab.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docgrab.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(html, baseURL string) ([]docgrab.CandidateLink, error)
}

func (e *LinkExtractor) Extract(html, baseURL string) ([]docgrab.CandidateLink, error) {
	return e.ExtractFn(html, baseURL)
}
