package guard

import (
	"sync"
	"time"
)

// killWindow is the rolling interval over which permitted kills are counted.
const killWindow = 60 * time.Second

// KillLimiter limits how many process terminations may happen inside a
// rolling 60 second window. State lives in memory only; a restart resets it.
type KillLimiter struct {
	mu           sync.Mutex
	maxPerWindow int
	clock        Clock
	stamps       []time.Time // permitted kills, oldest first
}

// NewKillLimiter creates a limiter allowing maxPerWindow kills per minute.
func NewKillLimiter(maxPerWindow int, clock Clock) *KillLimiter {
	if clock == nil {
		clock = SystemClock()
	}
	return &KillLimiter{
		maxPerWindow: maxPerWindow,
		clock:        clock,
	}
}

// Allow reports whether another kill is permitted right now. A permitted
// call is recorded against the window; a rejected call leaves no trace.
func (l *KillLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-killWindow)

	// Drop timestamps that have slid out of the window
	var recent []time.Time
	for _, t := range l.stamps {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.maxPerWindow {
		l.stamps = recent
		return false
	}

	l.stamps = append(recent, now)
	return true
}

// MaxPerWindow returns the configured kill budget per window.
func (l *KillLimiter) MaxPerWindow() int {
	return l.maxPerWindow
}
