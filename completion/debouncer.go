package completion

import (
	"context"
	"sync"
	"time"
)

const defaultDebounceInterval = 400 * time.Millisecond

// DebouncedFunc is the work a debounced burst resolves to.
type DebouncedFunc func(ctx context.Context) ([]string, error)

type debounceResult struct {
	suggestions []string
	err         error
}

// Debouncer collapses a burst of calls into a single trailing execution:
// each call restarts the quiet-period timer, and when it finally elapses
// only the most recently submitted function runs. Every caller still
// blocked on the burst observes that one execution's result. Each pipeline
// owns its own Debouncer, so independent pipelines never interfere.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending DebouncedFunc
	ctx     context.Context
	waiters []chan debounceResult
}

func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = defaultDebounceInterval
	}
	return &Debouncer{interval: interval}
}

// Do registers fn as the burst's candidate and blocks until either the
// trailing execution completes or ctx is cancelled. A caller whose context
// is cancelled gets ctx.Err() back; the burst itself keeps running for the
// remaining waiters.
func (d *Debouncer) Do(ctx context.Context, fn DebouncedFunc) ([]string, error) {
	ch := make(chan debounceResult, 1)

	d.mu.Lock()
	d.pending = fn
	d.ctx = ctx
	d.waiters = append(d.waiters, ch)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.suggestions, res.err
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	ctx := d.ctx
	waiters := d.waiters
	d.pending = nil
	d.ctx = nil
	d.waiters = nil
	d.timer = nil
	d.mu.Unlock()

	if fn == nil {
		return
	}
	suggestions, err := fn(ctx)
	res := debounceResult{suggestions: suggestions, err: err}
	for _, ch := range waiters {
		// buffered, so departed waiters never block the burst
		ch <- res
	}
}
