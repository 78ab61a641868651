package task

import (
	"sync"
	"sync/atomic"
	"time"
)

// stealBatchSize bounds how many tasks an idle worker adopts from the
// injector in one go (spec.md §4.8 step 2: "steal a batch"), so one
// worker refill does not starve every other worker of injector work.
const stealBatchSize = 32

const (
	spinAttempts  = 64
	backoffSleep  = 200 * time.Microsecond
	parkThreshold = 50 * time.Millisecond
)

// Scheduler owns the injector queue, the per-worker deques, the timer
// wheel, task-local storage, and metrics for one parallel task pool, per
// spec.md §4.8.
type Scheduler struct {
	numWorkers int
	deques     []*deque
	injector   *injector
	timer      *timerWheel
	metrics    *Metrics
	locals     *LocalStore
	scaler     *autoscaler

	nextID atomic.Uint64

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup

	started atomic.Bool
}

// NewScheduler constructs a Scheduler with numWorkers parallel workers.
// Call Start to begin running them.
func NewScheduler(numWorkers int) *Scheduler {
	if numWorkers < 1 {
		numWorkers = 1
	}
	s := &Scheduler{
		numWorkers: numWorkers,
		injector:   newInjector(),
		timer:      newTimerWheel(),
		metrics:    newMetrics(numWorkers),
		locals:     newLocalStore(),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
	s.deques = make([]*deque, numWorkers)
	for i := range s.deques {
		s.deques[i] = newDeque()
	}
	return s
}

// Start launches the worker goroutines, the timer thread, and the
// auto-scaler thread. Safe to call once.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.timer.run()
	}()

	for i := 0; i < s.numWorkers; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			s.workerLoop(id)
		}(i)
	}

	s.scaler = newAutoscaler(s, 500*time.Millisecond, nil)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.scaler.run()
	}()
}

// Shutdown stops every worker, the timer thread, and the auto-scaler,
// and blocks until they have all exited.
func (s *Scheduler) Shutdown() {
	if s.scaler != nil {
		s.scaler.close()
	}
	s.timer.close()
	close(s.stop)
	s.wg.Wait()
}

// Metrics returns a point-in-time snapshot of scheduler-wide counters.
func (s *Scheduler) Metrics() Snapshot {
	return s.metrics.snapshot(s.injector.len())
}

// Locals returns the scheduler's task-local storage table.
func (s *Scheduler) Locals() *LocalStore { return s.locals }

func (s *Scheduler) nextTaskID() ID { return ID(s.nextID.Add(1)) }

func (s *Scheduler) notifyWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Spawn enqueues a new task running step, optionally governed by
// cancel, onto the global injector. Returns the Task handle for
// joining.
func (s *Scheduler) Spawn(step StepFunc, cancel *CancelToken) *Task {
	t := newTask(s.nextTaskID(), step, cancel, s)
	s.metrics.recordSpawn()
	s.injector.push(t)
	s.notifyWake()
	return t
}

// resumeWith reinstalls next as t's step and re-pushes it onto the
// injector — the mechanism every suspension point uses to arrange its
// own resumption once its waker fires.
func (s *Scheduler) resumeWith(t *Task, next StepFunc) {
	t.step = next
	t.state.Store(int32(StatePending))
	s.injector.push(t)
	s.notifyWake()
}

// SleepThen suspends t for at least d, then resumes it with next — the
// `sleep(duration)` suspension point from spec.md §4.8.
func (s *Scheduler) SleepThen(t *Task, d time.Duration, next StepFunc) StepResult {
	t.state.Store(int32(StateSuspended))
	s.timer.arm(time.Now().Add(d), func() { s.resumeWith(t, next) })
	return StepSuspended
}

// AwaitThen suspends t until joinee completes, then resumes it with
// next applied to joinee's result — the `await` on a join handle
// suspension point. If joinee has already completed, t is resumed
// immediately (still via the injector, preserving the worker-loop
// invariant that only workers execute Steps).
func (s *Scheduler) AwaitThen(t *Task, joinee *Task, next func(result any, err error, cancelled bool) StepFunc) StepResult {
	t.state.Store(int32(StateSuspended))
	joinee.onCompletion(func() {
		result, err := joinee.Result()
		s.resumeWith(t, next(result, err, joinee.State() == StateCancelled))
	})
	return StepSuspended
}

// RecvAsyncThen suspends t until ch yields a value or closes, then
// resumes it with next. A convenience wrapper over Channel.RecvAsync
// that wires the scheduler's resumption path in for callers that do not
// want to manage the waker plumbing directly.
func RecvAsyncThen[T any](s *Scheduler, t *Task, ch *Channel[T], next func(v T, closed bool) StepFunc) (v T, ok bool, result StepResult) {
	v, ok, suspended := ch.RecvAsync(func(v T, closed bool) {
		s.resumeWith(t, next(v, closed))
	})
	if !suspended {
		return v, ok, StepDone
	}
	t.state.Store(int32(StateSuspended))
	return v, ok, StepSuspended
}

// workerLoop implements spec.md §4.8's four-step worker loop.
func (s *Scheduler) workerLoop(id int) {
	own := s.deques[id]
	idleSince := time.Time{}
	spins := 0

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		t := own.popOwner()

		if t == nil {
			if batch := s.injector.stealBatch(stealBatchSize); len(batch) > 0 {
				for _, bt := range batch {
					own.pushOwner(bt)
				}
				t = own.popOwner()
			}
		}

		if t == nil {
			t = s.stealFromPeers(id)
			if t != nil {
				s.metrics.recordTaskStolen(id)
			}
		}

		if t == nil {
			s.timer.fireExpired()

			s.metrics.setWorkerState(id, WorkerIdle)
			if idleSince.IsZero() {
				idleSince = time.Now()
			}

			if spins < spinAttempts {
				spins++
				continue
			}

			if time.Since(idleSince) > parkThreshold {
				s.metrics.setWorkerState(id, WorkerParked)
			}

			select {
			case <-s.stop:
				return
			case <-s.wake:
			case <-time.After(backoffSleep):
			}
			continue
		}

		spins = 0
		idleSince = time.Time{}
		s.metrics.setWorkerState(id, WorkerBusy)
		s.runTask(id, t)
	}
}

// stealFromPeers iterates every other worker's deque in order, taking
// the single oldest task from the first non-empty one it finds
// (spec.md §4.8 step 3).
func (s *Scheduler) stealFromPeers(id int) *Task {
	for i := 1; i < s.numWorkers; i++ {
		peer := (id + i) % s.numWorkers
		if t := s.deques[peer].steal(); t != nil {
			return t
		}
	}
	return nil
}

// runTask executes one Step of t. A cancelled-but-not-yet-run task is
// dropped without executing its Step and still counted as completed,
// per spec.md §4.8.
func (s *Scheduler) runTask(id int, t *Task) {
	if t.Cancelled() && t.State() == StatePending {
		t.finish(nil, nil, true)
		s.locals.clear(t.ID)
		s.metrics.recordCancelled()
		s.metrics.recordCompleted()
		return
	}

	t.state.Store(int32(StateRunning))
	result := t.step(t)
	s.metrics.recordTaskRun(id)

	if result == StepSuspended {
		return
	}

	// A StepFunc that returns StepDone without calling t.Complete
	// itself finishes here with whatever result/err it last recorded
	// (nil by default).
	t.Complete(t.result, t.err)
	s.locals.clear(t.ID)
	s.metrics.recordCompleted()
}
