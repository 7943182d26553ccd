package completion

import (
	"sync"
	"time"
)

// RateLimiter bounds how many upstream calls may start per fixed window.
// The counter resets on window boundaries rather than sliding, so a caller
// refused near the end of one window may succeed moments later. A ceiling
// of zero or less disables the limit.
type RateLimiter struct {
	mu      sync.Mutex
	ceiling int
	count   int

	ticker *time.Ticker
	done   chan struct{}
}

func NewRateLimiter(ceiling int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	r := &RateLimiter{
		ceiling: ceiling,
		ticker:  time.NewTicker(window),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *RateLimiter) run() {
	for {
		select {
		case <-r.ticker.C:
			r.mu.Lock()
			r.count = 0
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

// Allow reports whether another call may start in the current window and,
// if so, consumes a slot. The check and increment are a single critical
// section so concurrent callers can never overshoot the ceiling.
func (r *RateLimiter) Allow() bool {
	if r.ceiling <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count >= r.ceiling {
		return false
	}
	r.count++
	return true
}

// Remaining reports how many slots are left in the current window.
func (r *RateLimiter) Remaining() int {
	if r.ceiling <= 0 {
		return -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count >= r.ceiling {
		return 0
	}
	return r.ceiling - r.count
}

// Stop terminates the reset goroutine. Allow keeps answering afterwards,
// but the window no longer resets.
func (r *RateLimiter) Stop() {
	r.ticker.Stop()
	close(r.done)
}
