package task

import (
	"container/heap"
	"sync"
	"time"
)

// timerEntry is one armed expiration: a sleep, a timeout race, or any
// other deadline-driven wakeup.
type timerEntry struct {
	deadline time.Time
	fire     func() // re-injects the continuation task
	index    int    // heap.Interface bookkeeping
}

// timerHeap is a min-heap of timerEntry ordered by deadline. It is the
// timer wheel's only tier: there are no hierarchical wheel slots, and
// container/heap finds the nearest expiration directly.
type timerHeap []*timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index, h[j].index = i, j }
func (h *timerHeap) Push(x interface{}) { e := x.(*timerEntry); e.index = len(*h); *h = append(*h, e) }
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// timerWheel is the scheduler's single deadline structure, advanced by a
// dedicated goroutine per spec.md §4.8 ("advanced by a dedicated thread
// that sleeps until the nearest expiration, bounded by a short polling
// interval").
type timerWheel struct {
	mu      sync.Mutex
	heap    timerHeap
	wake    chan struct{}
	stop    chan struct{}
	stopped sync.Once

	pollInterval time.Duration
}

func newTimerWheel() *timerWheel {
	return &timerWheel{
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		pollInterval: 5 * time.Millisecond,
	}
}

// arm schedules fire to run once at or after deadline.
func (w *timerWheel) arm(deadline time.Time, fire func()) {
	w.mu.Lock()
	heap.Push(&w.heap, &timerEntry{deadline: deadline, fire: fire})
	w.mu.Unlock()
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// run is the dedicated timer thread's loop: sleep until the nearest
// deadline (capped by pollInterval so a newly-armed earlier timer is
// never missed by more than one poll tick), then pop and fire every
// expired entry.
func (w *timerWheel) run() {
	for {
		wait := w.pollInterval
		w.mu.Lock()
		if len(w.heap) > 0 {
			if d := time.Until(w.heap[0].deadline); d < wait {
				wait = d
			}
		}
		w.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		select {
		case <-w.stop:
			return
		case <-w.wake:
			continue
		case <-time.After(wait):
		}

		w.fireExpired()
	}
}

// fireExpired pops and fires every entry whose deadline has passed. Used
// both by the dedicated timer thread and, per spec.md §4.8 step 4, by an
// idle worker's own "process the timer wheel for expirations" fallback.
func (w *timerWheel) fireExpired() {
	now := time.Now()
	for {
		w.mu.Lock()
		if len(w.heap) == 0 || w.heap[0].deadline.After(now) {
			w.mu.Unlock()
			return
		}
		e := heap.Pop(&w.heap).(*timerEntry)
		w.mu.Unlock()
		e.fire()
	}
}

func (w *timerWheel) close() {
	w.stopped.Do(func() { close(w.stop) })
}
