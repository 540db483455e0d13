package http

import (
	"sync"
	"time"
)

const (
	// Windows idle longer than this are forgotten by the sweeper.
	idleWindowTTL = 1 * time.Hour
	sweepEvery    = 30 * time.Minute
)

type clientWindow struct {
	remaining int
	opened    time.Time
}

// RateLimiter is a fixed-window counter per client key. Each key gets
// capacity requests, restored in full once window has passed.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	clients  map[string]*clientWindow
	now      func() time.Time

	stopOnce sync.Once
	done     chan struct{}
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := newRateLimiter(capacity, window, time.Now)
	go rl.sweepLoop()
	return rl
}

func newRateLimiter(capacity int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		capacity: capacity,
		window:   window,
		clients:  make(map[string]*clientWindow),
		now:      now,
		done:     make(chan struct{}),
	}
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.cleanup()
		}
	}
}

func (r *RateLimiter) cleanup() {
	cutoff := r.now().Add(-idleWindowTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, w := range r.clients {
		if w.opened.Before(cutoff) {
			delete(r.clients, key)
		}
	}
}

// Stop ends the sweeper goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Allow spends one request for key. When the window is exhausted it reports
// false and the time left until the window reopens.
func (r *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.clients[key]
	switch {
	case !ok:
		w = &clientWindow{opened: now, remaining: r.capacity}
		r.clients[key] = w
	case now.Sub(w.opened) >= r.window:
		w.opened, w.remaining = now, r.capacity
	}

	if w.remaining == 0 {
		return false, w.opened.Add(r.window).Sub(now)
	}
	w.remaining--
	return true, 0
}
