package task

import (
	"sync"
	"sync/atomic"
	"time"
)

// WorkerState is a worker's coarse activity state for metrics purposes.
type WorkerState int32

const (
	WorkerBusy WorkerState = iota
	WorkerIdle
	WorkerParked
)

func (s WorkerState) String() string {
	switch s {
	case WorkerBusy:
		return "busy"
	case WorkerIdle:
		return "idle"
	case WorkerParked:
		return "parked"
	default:
		return "unknown"
	}
}

// WorkerMetrics is one worker's point-in-time counters.
type WorkerMetrics struct {
	State       WorkerState
	TasksRun    uint64
	TasksStolen uint64
}

// Metrics aggregates scheduler-wide counters, per spec.md §4.8: per-
// worker state and task counts, spawn/completion/cancellation totals,
// and the injector's backlog. Channel backlog is not tracked: channels
// are typed and not owned by the scheduler, and Snapshot has no field
// for it.
type Metrics struct {
	spawned    atomic.Uint64
	completed  atomic.Uint64
	cancelled  atomic.Uint64

	mu      sync.Mutex
	workers []*workerCounters
}

type workerCounters struct {
	state       atomic.Int32
	tasksRun    atomic.Uint64
	tasksStolen atomic.Uint64
}

func newMetrics(numWorkers int) *Metrics {
	m := &Metrics{workers: make([]*workerCounters, numWorkers)}
	for i := range m.workers {
		m.workers[i] = &workerCounters{}
	}
	return m
}

func (m *Metrics) recordSpawn()     { m.spawned.Add(1) }
func (m *Metrics) recordCompleted() { m.completed.Add(1) }
func (m *Metrics) recordCancelled() { m.cancelled.Add(1) }

func (m *Metrics) setWorkerState(i int, s WorkerState) {
	m.workers[i].state.Store(int32(s))
}

func (m *Metrics) recordTaskRun(i int)    { m.workers[i].tasksRun.Add(1) }
func (m *Metrics) recordTaskStolen(i int) { m.workers[i].tasksStolen.Add(1) }

// Snapshot is a consistent-enough point-in-time read of every counter,
// suitable for the CLI's `profile` subcommand or a dashboard.
type Snapshot struct {
	Spawned   uint64
	Completed uint64
	Cancelled uint64
	Workers   []WorkerMetrics
	Backlog   int // injector depth at sample time
}

func (m *Metrics) snapshot(backlog int) Snapshot {
	s := Snapshot{
		Spawned:   m.spawned.Load(),
		Completed: m.completed.Load(),
		Cancelled: m.cancelled.Load(),
		Backlog:   backlog,
		Workers:   make([]WorkerMetrics, len(m.workers)),
	}
	for i, w := range m.workers {
		s.Workers[i] = WorkerMetrics{
			State:       WorkerState(w.state.Load()),
			TasksRun:    w.tasksRun.Load(),
			TasksStolen: w.tasksStolen.Load(),
		}
	}
	return s
}

// ScalingSuggestion is the auto-scaler's periodic recommendation. Per
// spec.md §4.8, actually adding or removing workers at runtime is not
// required — the scheduler only reports the suggestion.
type ScalingSuggestion struct {
	At              time.Time
	BusyFraction    float64
	SuggestGrow     bool
	SuggestShrink   bool
	SampledBacklog  int
}

// autoscaler samples Metrics on an interval and reports suggestions via
// a callback, per spec.md §4.8.
type autoscaler struct {
	sched    *Scheduler
	interval time.Duration
	onSample func(ScalingSuggestion)
	stop     chan struct{}
	stopOnce sync.Once
}

func newAutoscaler(sched *Scheduler, interval time.Duration, onSample func(ScalingSuggestion)) *autoscaler {
	return &autoscaler{sched: sched, interval: interval, onSample: onSample, stop: make(chan struct{})}
}

func (a *autoscaler) run() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.sample()
		}
	}
}

func (a *autoscaler) sample() {
	snap := a.sched.metrics.snapshot(a.sched.injector.len())
	busy := 0
	for _, w := range snap.Workers {
		if w.State == WorkerBusy {
			busy++
		}
	}
	frac := 0.0
	if n := len(snap.Workers); n > 0 {
		frac = float64(busy) / float64(n)
	}
	suggestion := ScalingSuggestion{
		At:             time.Now(),
		BusyFraction:   frac,
		SuggestGrow:    frac > 0.9 && snap.Backlog > 0,
		SuggestShrink:  frac < 0.1,
		SampledBacklog: snap.Backlog,
	}
	if a.onSample != nil {
		a.onSample(suggestion)
	}
}

func (a *autoscaler) close() {
	a.stopOnce.Do(func() { close(a.stop) })
}
