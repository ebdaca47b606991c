// Package presenter adapts finalized assistant messages into time-paced or
// audio side effects without altering the underlying data.
package presenter

import (
	"context"
	"time"
)

// DefaultInterval is the per-character reveal pace.
const DefaultInterval = 20 * time.Millisecond

// Typewriter reveals successive prefixes of a message at a fixed per-rune
// interval.
type Typewriter struct {
	interval time.Duration
}

func NewTypewriter(interval time.Duration) *Typewriter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Typewriter{interval: interval}
}

// Reveal streams growing prefixes of text on the returned channel. The
// channel is closed when the full text has been emitted or the context is
// cancelled; onComplete fires exactly once, and only on full emission.
// Restarting means calling Reveal again with a new message.
func (t *Typewriter) Reveal(ctx context.Context, text string, onComplete func()) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		runes := []rune(text)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for i := 1; i <= len(runes); i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			select {
			case <-ctx.Done():
				return
			case ch <- string(runes[:i]):
			}
		}
		if onComplete != nil {
			onComplete()
		}
	}()
	return ch
}
