package input

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDebounce is the minimum interval between two presses of the same button.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer admits at most one edge per role per interval.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[Role]*rate.Limiter
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval, limiters: make(map[Role]*rate.Limiter)}
}

// Allow reports whether an edge on role now should be kept.
func (d *Debouncer) Allow(role Role) bool {
	return d.AllowAt(role, time.Now())
}

// AllowAt is [Debouncer.Allow] at an explicit time.
func (d *Debouncer) AllowAt(role Role, t time.Time) bool {
	if d.interval <= 0 {
		return true
	}

	d.mu.Lock()
	l, ok := d.limiters[role]
	if !ok {
		l = rate.NewLimiter(rate.Every(d.interval), 1)
		d.limiters[role] = l
	}
	d.mu.Unlock()

	return l.AllowN(t, 1)
}
