package knowledge

import (
	"sync"
	"time"
)

// ProgressFunc receives the latest per-file transfer percentages
type ProgressFunc func(progress map[string]int)

// ProgressNotifier coalesces bursts of per-chunk progress updates into
// flushes at a fixed interval, so a fast transfer does not drown the
// display. Coalescing is a batching optimization only; the final state of
// every file is always delivered.
type ProgressNotifier struct {
	interval time.Duration
	fn       ProgressFunc

	mu      sync.Mutex
	latest  map[string]int
	pending bool
	stopped bool
}

// NewProgressNotifier creates a notifier flushing at most once per interval
func NewProgressNotifier(interval time.Duration, fn ProgressFunc) *ProgressNotifier {
	return &ProgressNotifier{
		interval: interval,
		fn:       fn,
		latest:   map[string]int{},
	}
}

// Update records a file's transferred percentage and schedules a flush if
// none is pending.
func (n *ProgressNotifier) Update(name string, percent int) {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}

	n.latest[name] = percent
	if n.pending {
		n.mu.Unlock()
		return
	}
	n.pending = true
	n.mu.Unlock()

	time.AfterFunc(n.interval, n.flush)
}

func (n *ProgressNotifier) flush() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.pending = false
	snapshot := make(map[string]int, len(n.latest))
	for name, pct := range n.latest {
		snapshot[name] = pct
	}
	n.mu.Unlock()

	n.fn(snapshot)
}

// Flush delivers the current state immediately
func (n *ProgressNotifier) Flush() {
	n.flush()
}

// Stop prevents any further delivery
func (n *ProgressNotifier) Stop() {
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()
}
