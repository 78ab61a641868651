package task

import (
	"errors"
	"testing"
	"time"
)

func TestScheduler_SpawnRunsToCompletion(t *testing.T) {
	s := NewScheduler(2)
	s.Start()
	defer s.Shutdown()

	done := make(chan struct{})
	task := s.Spawn(func(task *Task) StepResult {
		task.Complete(42, nil)
		close(done)
		return StepDone
	}, nil)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}

	waitDone(t, task)
	result, err := task.Result()
	if err != nil || result != 42 {
		t.Fatalf("unexpected result: %v %v", result, err)
	}
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for task.State() != StateDone && task.State() != StateCancelled {
		if time.Now().After(deadline) {
			t.Fatal("task never reached a terminal state")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestScheduler_CancelledPendingTaskNeverRuns(t *testing.T) {
	s := NewScheduler(1)
	token := NewCancelToken()
	token.Cancel()

	ran := false
	task := s.Spawn(func(task *Task) StepResult {
		ran = true
		task.Complete(nil, nil)
		return StepDone
	}, token)

	s.Start()
	defer s.Shutdown()

	waitDone(t, task)
	if ran {
		t.Fatal("expected a pre-cancelled task to never execute its step")
	}
	if task.State() != StateCancelled {
		t.Fatalf("expected StateCancelled, got %v", task.State())
	}
}

func TestScheduler_SleepThenResumes(t *testing.T) {
	s := NewScheduler(1)
	s.Start()
	defer s.Shutdown()

	task := s.Spawn(func(task *Task) StepResult {
		return s.SleepThen(task, 10*time.Millisecond, func(task *Task) StepResult {
			task.Complete("woke", nil)
			return StepDone
		})
	}, nil)

	waitDone(t, task)
	result, _ := task.Result()
	if result != "woke" {
		t.Fatalf("expected task to resume after sleep, got %v", result)
	}
}

func TestScheduler_AwaitThenObservesJoineeResult(t *testing.T) {
	s := NewScheduler(2)
	s.Start()
	defer s.Shutdown()

	joinee := s.Spawn(func(task *Task) StepResult {
		task.Complete("inner", nil)
		return StepDone
	}, nil)

	outer := s.Spawn(func(task *Task) StepResult {
		return s.AwaitThen(task, joinee, func(result any, err error, cancelled bool) StepFunc {
			return func(task *Task) StepResult {
				task.Complete(result, err)
				return StepDone
			}
		})
	}, nil)

	waitDone(t, outer)
	result, err := outer.Result()
	if err != nil || result != "inner" {
		t.Fatalf("unexpected awaited result: %v %v", result, err)
	}
}

func TestChannel_SendThenTryRecv(t *testing.T) {
	ch := NewChannel[int]()
	ch.Send(7)
	v, ok, _ := ch.TryRecv()
	if !ok || v != 7 {
		t.Fatalf("expected to receive 7, got %v %v", v, ok)
	}
	if _, ok, _ := ch.TryRecv(); ok {
		t.Fatal("expected an empty channel to miss")
	}
}

func TestChannel_RecvAsyncWakesOnSend(t *testing.T) {
	ch := NewChannel[string]()
	received := make(chan string, 1)
	_, _, suspended := ch.RecvAsync(func(v string, closed bool) {
		received <- v
	})
	if !suspended {
		t.Fatal("expected RecvAsync to suspend on an empty channel")
	}
	ch.Send("hello")

	select {
	case v := <-received:
		if v != "hello" {
			t.Fatalf("unexpected value: %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("waker never fired")
	}
}

func TestChannel_CloseWakesAllReceivers(t *testing.T) {
	ch := NewChannel[int]()
	woken := 0
	for i := 0; i < 3; i++ {
		ch.RecvAsync(func(v int, closed bool) {
			if closed {
				woken++
			}
		})
	}
	ch.Close()
	if woken != 3 {
		t.Fatalf("expected all 3 receivers woken on close, got %d", woken)
	}
}

func TestSelect2_FirstReadyWins(t *testing.T) {
	a := NewChannel[int]()
	b := NewChannel[string]()

	var got string
	suspended := Select2(a, b,
		func(v int) { got = "a" },
		func(v string) { got = "b" },
	)
	if !suspended {
		t.Fatal("expected Select2 to suspend when both channels are empty")
	}

	b.Send("ready")
	if got != "b" {
		t.Fatalf("expected channel b's waker to fire, got %q", got)
	}

	// The value on a must still be available to a later recv.
	a.Send(1)
	if v, ok, _ := a.TryRecv(); !ok || v != 1 {
		t.Fatalf("expected channel a to be untouched by the losing select: %v %v", v, ok)
	}
}

func TestLocalStore_SetGetClear(t *testing.T) {
	ls := newLocalStore()
	ls.Set(ID(1), 0, "value")
	if v, ok := ls.Get(ID(1), 0); !ok || v != "value" {
		t.Fatalf("unexpected local value: %v %v", v, ok)
	}
	ls.clear(ID(1))
	if _, ok := ls.Get(ID(1), 0); ok {
		t.Fatal("expected cleared task-local storage to be gone")
	}
}

func TestCancelToken_CancelIsIdempotentAndObservable(t *testing.T) {
	c := NewCancelToken()
	if c.Cancelled() {
		t.Fatal("expected a fresh token to be uncancelled")
	}
	c.Cancel()
	c.Cancel()
	if !c.Cancelled() {
		t.Fatal("expected Cancel to be observable")
	}
}

func TestTimerWheel_FiresInDeadlineOrder(t *testing.T) {
	w := newTimerWheel()
	defer w.close()

	var order []int
	done := make(chan struct{}, 2)
	w.arm(time.Now().Add(30*time.Millisecond), func() { order = append(order, 2); done <- struct{}{} })
	w.arm(time.Now().Add(5*time.Millisecond), func() { order = append(order, 1); done <- struct{}{} })

	go w.run()

	<-done
	<-done
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected firing order [1 2], got %v", order)
	}
}

func TestDeque_StealTakesOldest(t *testing.T) {
	d := newDeque()
	t1 := &Task{ID: 1}
	t2 := &Task{ID: 2}
	d.pushOwner(t1)
	d.pushOwner(t2)

	stolen := d.steal()
	if stolen.ID != 1 {
		t.Fatalf("expected the oldest task to be stolen, got %d", stolen.ID)
	}
	owned := d.popOwner()
	if owned.ID != 2 {
		t.Fatalf("expected the owner's pop to return the remaining task, got %d", owned.ID)
	}
}

func TestInjector_StealBatchRespectsMax(t *testing.T) {
	q := newInjector()
	for i := 0; i < 10; i++ {
		q.push(&Task{ID: ID(i)})
	}
	batch := q.stealBatch(3)
	if len(batch) != 3 {
		t.Fatalf("expected a batch of 3, got %d", len(batch))
	}
	if q.len() != 7 {
		t.Fatalf("expected 7 remaining in the injector, got %d", q.len())
	}
}

var errBoom = errors.New("boom")

func TestTask_CompleteWithError(t *testing.T) {
	s := NewScheduler(1)
	s.Start()
	defer s.Shutdown()

	task := s.Spawn(func(task *Task) StepResult {
		task.Complete(nil, errBoom)
		return StepDone
	}, nil)

	waitDone(t, task)
	_, err := task.Result()
	if err != errBoom {
		t.Fatalf("expected errBoom, got %v", err)
	}
}
