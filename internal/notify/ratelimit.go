// internal/notify/ratelimit.go
//
// Fixed-window dispatch limiter keyed by submitting origin.
//
// Context
//   The mail side channel accepts at most 5 dispatches per origin per
//   hour.  The counter is an in-process map, deliberately not shared
//   across instances or restarts: the ceiling is a best-effort abuse
//   brake, not an accounting system.  A durable guarantee would need an
//   external shared counter instead.
//
//------------------------------------------------------------------------------

package notify

import (
	"sync"
	"time"
)

const (
	defaultLimit = 5
	windowLen    = time.Hour
)

type windowEntry struct {
	count int
	reset time.Time
}

// limiter tracks per-origin dispatch counts in fixed windows.
type limiter struct {
	mu      sync.Mutex
	max     int
	entries map[string]*windowEntry
	now     func() time.Time // swapped in tests
}

func newLimiter(max int) *limiter {
	if max <= 0 {
		max = defaultLimit
	}
	return &limiter{
		max:     max,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// allow reports whether origin may dispatch now, counting the attempt when
// permitted.  The first request of a window also prunes expired entries so
// the map does not grow unbounded.
func (l *limiter) allow(origin string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[origin]
	if !ok || now.After(e.reset) {
		l.prune(now)
		l.entries[origin] = &windowEntry{count: 1, reset: now.Add(windowLen)}
		return true
	}

	if e.count >= l.max {
		return false
	}
	e.count++
	return true
}

// prune drops expired windows.  Caller holds mu.
func (l *limiter) prune(now time.Time) {
	for origin, e := range l.entries {
		if now.After(e.reset) {
			delete(l.entries, origin)
		}
	}
}
