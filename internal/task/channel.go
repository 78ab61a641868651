package task

import "sync"

// waker is a one-shot resumption callback registered by a suspended
// recv_async or select2 call; Trigger fires it at most once even if
// multiple events race to satisfy it.
type waker struct {
	once sync.Once
	fn   func()
}

func newWaker(fn func()) *waker { return &waker{fn: fn} }

func (w *waker) trigger() {
	w.once.Do(w.fn)
}

// Channel is an unbounded FIFO with explicit wakers, per spec.md §4.8:
// send appends and wakes one registered receiver; try_recv is
// non-blocking; recv_async either returns a value immediately or
// registers the caller's waker; close wakes every registered receiver
// exactly once. Ordering is per-channel FIFO across every sender
// (spec.md §8's channel-ordering invariant).
type Channel[T any] struct {
	mu      sync.Mutex
	buf     []T
	closed  bool
	waiters []*waker
}

// NewChannel returns an empty, open channel.
func NewChannel[T any]() *Channel[T] { return &Channel[T]{} }

// Send appends v and wakes the single oldest registered receiver, if
// any. Sending on a closed channel is a no-op (the value is dropped)
// since nothing will ever drain it again.
func (c *Channel[T]) Send(v T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.buf = append(c.buf, v)
	var w *waker
	if len(c.waiters) > 0 {
		w, c.waiters = c.waiters[0], c.waiters[1:]
	}
	c.mu.Unlock()
	if w != nil {
		w.trigger()
	}
}

// TryRecv returns the oldest buffered value immediately without
// registering a waker. ok is false on an empty (and not yet closed)
// channel; closed reports whether the channel has been closed with an
// empty buffer (the "no more values will ever arrive" terminal case).
func (c *Channel[T]) TryRecv() (v T, ok bool, closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) > 0 {
		v, c.buf = c.buf[0], c.buf[1:]
		return v, true, false
	}
	return v, false, c.closed
}

// RecvAsync returns a buffered value immediately if one exists;
// otherwise it registers onReady to be called (with the eventual value
// and a closed flag) once a Send or Close happens, and reports
// suspended == true so the caller's Step can return StepSuspended.
func (c *Channel[T]) RecvAsync(onReady func(v T, closed bool)) (v T, ok bool, suspended bool) {
	c.mu.Lock()
	if len(c.buf) > 0 {
		v, c.buf = c.buf[0], c.buf[1:]
		c.mu.Unlock()
		return v, true, false
	}
	if c.closed {
		c.mu.Unlock()
		return v, false, false
	}
	w := newWaker(func() {
		val, ok, closed := c.TryRecv()
		onReady(val, closed && !ok)
	})
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
	return v, false, true
}

// Close marks the channel closed and wakes every registered receiver
// exactly once, per spec.md §4.8 ("close wakes every registered
// receiver once").
func (c *Channel[T]) Close() {
	c.mu.Lock()
	c.closed = true
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()
	for _, w := range waiters {
		w.trigger()
	}
}

// Len reports the current buffered backlog.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// registerWaiter attaches a raw waker directly, bypassing the
// automatic per-recv dequeue RecvAsync performs — used by Select2 so a
// single shared waker (and its sync.Once) governs which channel's value
// is actually consumed, rather than each channel independently
// dequeuing before the race is resolved.
func (c *Channel[T]) registerWaiter(w *waker) {
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
}

// Select2 implements spec.md §4.8's select2: try each channel
// immediately in order, and if neither has a value ready, register one
// shared waker on both so whichever fires first wins — the waker's
// sync.Once ensures only the first to fire actually dequeues and
// delivers a value; the loser's channel is left untouched for a later
// recv.
func Select2[A, B any](a *Channel[A], b *Channel[B], onA func(A), onB func(B)) (suspended bool) {
	if v, ok, _ := a.TryRecv(); ok {
		onA(v)
		return false
	}
	if v, ok, _ := b.TryRecv(); ok {
		onB(v)
		return false
	}

	w := newWaker(func() {
		if v, ok, _ := a.TryRecv(); ok {
			onA(v)
			return
		}
		if v, ok, _ := b.TryRecv(); ok {
			onB(v)
		}
	})
	a.registerWaiter(w)
	b.registerWaiter(w)
	return true
}
