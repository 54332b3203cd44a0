package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	count         int
	windowResetAt time.Time
}

// Limiter is a fixed-window request counter keyed by client address. Windows
// are independent per key and reset strictly by wall-clock expiry. The table
// is process-local and resets on restart; its only purpose is abuse
// mitigation, not accounting.
//
// The key is typically the first hop of an x-forwarded-for chain, which a
// direct caller can set itself. The deployment assumes a fronting proxy that
// overwrites the header.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit  int
	window time.Duration
	now    func() time.Time

	log *zap.Logger
}

// New creates a limiter allowing limit requests per key per window.
func New(limit int, window time.Duration, log *zap.Logger) *Limiter {
	return NewWithClock(limit, window, time.Now, log)
}

// NewWithClock creates a limiter with an injected clock so window expiry can
// be tested without real timers.
func NewWithClock(limit int, window time.Duration, now func() time.Time, log *zap.Logger) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     now,
		log:     log,
	}
}

// CheckAndIncrement records one request for key and reports whether it is
// still within the window's budget. The first request of a fresh window
// always passes and opens a new window.
func (l *Limiter) CheckAndIncrement(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.windowResetAt) {
		l.entries[key] = &entry{count: 1, windowResetAt: now.Add(l.window)}
		return true
	}

	e.count++
	return e.count <= l.limit
}

// SweepExpired removes every entry whose window has passed at now.
func (l *Limiter) SweepExpired(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.After(e.windowResetAt) {
			delete(l.entries, key)
		}
	}
}

// StartSweeper runs SweepExpired on the window interval until ctx is done.
func (l *Limiter) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(l.window)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				l.log.Info("Rate limiter sweeper shutting down")
				return
			case <-ticker.C:
				l.SweepExpired(l.now())
			}
		}
	}()
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
