package docgrab

import (
	"context"
	"time"
)

// Renderer turns a page URL into HTML.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Renderer interface {
	// Render loads the URL and returns the document HTML.
	// Returns EUNAVAILABLE if the capability behind the renderer is not
	// present in the environment (e.g., no browser installed).
	Render(ctx context.Context, url string) (html string, err error)

	// Close releases backend resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}

// Settle describes how long a browser backend waits for lazily loaded
// content before capturing the page.
type Settle struct {
	// Idle bounds the wait for network quiescence after navigation.
	Idle time.Duration

	// Rounds is the number of scroll-to-bottom passes.
	Rounds int

	// Pause is the wait after each scroll pass.
	Pause time.Duration
}

// DefaultSettle returns the settle sequence used by the browser backends:
// up to 3s for the network to go idle, then three scroll passes 2s apart.
func DefaultSettle() Settle {
	return Settle{
		Idle:   3 * time.Second,
		Rounds: 3,
		Pause:  2 * time.Second,
	}
}

// ScrollToBottomJS is a JavaScript expression that scrolls the window to the
// end of the document.
const ScrollToBottomJS = `window.scrollTo(0, document.body.scrollHeight)`
