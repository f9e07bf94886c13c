package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/docgrab"
	"golang.org/x/time/rate"
)

var _ docgrab.Pacer = (*Pacer)(nil)

// Pacer enforces a fixed pause between the end of one request and the
// start of the next. It is a token bucket with a burst of 1 where only
// Done takes the token, so the refill clock starts when a request
// finishes. The first Wait returns immediately.
type Pacer struct {
	limiter *rate.Limiter // nil when pacing is disabled
}

// NewPacer creates a Pacer that pauses for delay after each request.
// A zero delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	if delay <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the token is back, without taking it.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	for {
		tokens := p.limiter.Tokens()
		if tokens >= 1 {
			return nil
		}
		wait := time.Duration((1 - tokens) / float64(p.limiter.Limit()) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Done takes the token, starting the pause.
func (p *Pacer) Done() {
	if p.limiter != nil {
		p.limiter.Reserve()
	}
}
