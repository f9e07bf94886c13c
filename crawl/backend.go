package crawl

import "github.com/fwojciec/docgrab"

// Backend is a named renderer in the escalation order.
type Backend struct {
	Name     string
	Renderer docgrab.Renderer
}

// CloseBackends closes every renderer and returns the first error.
func CloseBackends(backends []Backend) error {
	var first error
	for _, b := range backends {
		if err := b.Renderer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
