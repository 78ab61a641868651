package task

import "sync/atomic"

// CancelToken is a shared atomic flag. Cancellation is cooperative per
// spec.md §4.8: setting the flag does not interrupt a running task, only
// marks that its next suspension point (or, for a not-yet-run task, the
// scheduler itself) should observe it and terminate.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns a fresh, unset token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel flips the token. Idempotent.
func (c *CancelToken) Cancel() { c.flag.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *CancelToken) Cancelled() bool { return c.flag.Load() }
