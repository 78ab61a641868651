// Package task implements OtterLang's runtime task scheduler, per
// spec.md §4.8: a work-stealing pool of parallel worker threads draining
// one global injector queue plus per-worker local deques, a timer wheel
// for sleeps (one deadline-ordered min-heap; it has no hierarchical
// tiers), cooperative cancellation tokens, and task-local storage.
//
// Grounded on no single example repo (none implements a scheduler); the
// concurrency primitives follow the teacher's own idiom for guarding
// shared state (internal/module.Loader's sync.RWMutex-guarded map,
// generalized here to per-worker sync.Mutex-guarded deques and a
// mutex-guarded injector) since no pack repo offers a work-stealing or
// deque library to reuse instead.
package task

import (
	"sync"
	"sync/atomic"
)

// ID identifies one spawned task for the lifetime of a Scheduler.
type ID uint64

// State is a task's coarse lifecycle stage.
type State int32

const (
	StatePending State = iota
	StateRunning
	StateSuspended
	StateDone
	StateCancelled
)

// StepResult tells the worker loop what to do with a Task after running
// its Step once.
type StepResult int

const (
	// StepDone means the task's Step ran to completion; it is never
	// scheduled again.
	StepDone StepResult = iota
	// StepSuspended means Step hit a suspension point (await, recv_async,
	// sleep, select) and registered a Waker; the worker must not
	// re-schedule it until that Waker fires a continuation.
	StepSuspended
)

// StepFunc is a task's unit of work. It is called repeatedly (once per
// resumption) until it returns StepDone. A Step that suspends is
// responsible for arranging its own resumption via a Waker that
// re-injects a continuation Task.
type StepFunc func(t *Task) StepResult

// Task is one schedulable unit of work plus its cancellation and
// task-local state.
type Task struct {
	ID     ID
	step   StepFunc
	cancel *CancelToken
	sched  *Scheduler

	state atomic.Int32

	result any
	err    error
	done   chan struct{}

	joinWakersMu sync.Mutex
	joinWakers   []func()
}

func newTask(id ID, step StepFunc, cancel *CancelToken, sched *Scheduler) *Task {
	t := &Task{ID: id, step: step, cancel: cancel, sched: sched, done: make(chan struct{})}
	t.state.Store(int32(StatePending))
	return t
}

// State returns the task's current lifecycle stage.
func (t *Task) State() State { return State(t.state.Load()) }

// Cancelled reports whether this task's cancellation token has been
// flipped. A Step should check this at its own suspension points;
// the scheduler itself only checks it before running a still-pending
// task (spec.md §4.8: "dropped without execution").
func (t *Task) Cancelled() bool { return t.cancel != nil && t.cancel.Cancelled() }

// Result returns the task's final value and error once it has
// completed; it is only meaningful after a join.
func (t *Task) Result() (any, error) { return t.result, t.err }

// Complete records a task's outcome and wakes its joiners. A StepFunc
// that is finishing (about to return StepDone) calls this itself to
// supply its result; a StepFunc that merely returns StepDone without
// calling Complete finishes with a nil result, which runTask treats as
// success with no value.
func (t *Task) Complete(result any, err error) {
	if t.State() == StateDone || t.State() == StateCancelled {
		return
	}
	t.finish(result, err, false)
}

// finish marks the task done, records its outcome, and wakes every
// registered joiner exactly once — spec.md's "join handles provide a
// single happens-before from completion to resumption."
func (t *Task) finish(result any, err error, cancelled bool) {
	t.result, t.err = result, err
	if cancelled {
		t.state.Store(int32(StateCancelled))
	} else {
		t.state.Store(int32(StateDone))
	}
	close(t.done)

	t.joinWakersMu.Lock()
	wakers := t.joinWakers
	t.joinWakers = nil
	t.joinWakersMu.Unlock()
	for _, w := range wakers {
		w()
	}
}

// onCompletion registers fn to run exactly once when the task
// completes (successfully or cancelled); it runs immediately if the
// task has already finished.
func (t *Task) onCompletion(fn func()) {
	t.joinWakersMu.Lock()
	if t.State() == StateDone || t.State() == StateCancelled {
		t.joinWakersMu.Unlock()
		fn()
		return
	}
	t.joinWakers = append(t.joinWakers, fn)
	t.joinWakersMu.Unlock()
}
