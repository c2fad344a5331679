package orchestrator

import (
	"errors"
	"fmt"
	"testing"
)

func task(id string, status Status) *TaskState {
	return &TaskState{ID: id, Status: status}
}

func TestStorePutGet(t *testing.T) {
	s := NewStore(0)
	s.Put(&TaskState{
		ID:     "t1",
		Status: StatusCompleted,
		Steps:  []StepRecord{{Agent: "planning", Output: "done"}},
		Result: "done",
	})

	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Result != "done" || len(got.Steps) != 1 {
		t.Errorf("unexpected state: %+v", got)
	}

	if _, err := s.Get("absent"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestStorePutStoresSnapshot(t *testing.T) {
	s := NewStore(0)
	state := task("t1", StatusRunning)
	s.Put(state)

	// Mutating the caller's state after Put must not affect the store.
	state.Status = StatusFailed
	state.Steps = append(state.Steps, StepRecord{Agent: "planning"})

	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusRunning || len(got.Steps) != 0 {
		t.Errorf("store picked up caller mutations: %+v", got)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore(0)
	s.Put(&TaskState{ID: "t1", Status: StatusCompleted, Steps: []StepRecord{{Agent: "planning"}}})

	got, _ := s.Get("t1")
	got.Steps[0].Agent = "mutated"

	again, _ := s.Get("t1")
	if again.Steps[0].Agent != "planning" {
		t.Error("mutating a returned state changed the stored copy")
	}
}

func TestStoreReplaceDoesNotGrowOrder(t *testing.T) {
	s := NewStore(2)
	s.Put(task("t1", StatusRunning))
	s.Put(task("t1", StatusCompleted))
	s.Put(task("t2", StatusCompleted))

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("t1 evicted by its own update: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want replaced snapshot", got.Status)
	}
}

func TestStoreEvictsOldestTerminal(t *testing.T) {
	s := NewStore(3)
	s.Put(task("t1", StatusCompleted))
	s.Put(task("t2", StatusFailed))
	s.Put(task("t3", StatusCompleted))
	s.Put(task("t4", StatusCompleted))

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want bound of 3", s.Len())
	}
	if _, err := s.Get("t1"); !errors.Is(err, ErrTaskNotFound) {
		t.Error("oldest terminal task should have been evicted")
	}
	for _, id := range []string{"t2", "t3", "t4"} {
		if _, err := s.Get(id); err != nil {
			t.Errorf("task %s missing: %v", id, err)
		}
	}
}

func TestStoreNeverEvictsRunning(t *testing.T) {
	s := NewStore(2)
	s.Put(task("r1", StatusRunning))
	s.Put(task("r2", StatusRunning))
	s.Put(task("t3", StatusCompleted))

	for _, id := range []string{"r1", "r2"} {
		if _, err := s.Get(id); err != nil {
			t.Errorf("running task %s evicted: %v", id, err)
		}
	}
	// t3 is the only terminal task, so it is the one that goes.
	if _, err := s.Get("t3"); !errors.Is(err, ErrTaskNotFound) {
		t.Error("terminal task should be evicted before any running task")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestStoreAllRunningExceedsBound(t *testing.T) {
	s := NewStore(2)
	s.Put(task("r1", StatusRunning))
	s.Put(task("r2", StatusRunning))
	s.Put(task("r3", StatusRunning))

	// Live work is never dropped, even past the bound.
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
}

func TestStoreBoundHolds(t *testing.T) {
	s := NewStore(10)
	for i := 0; i < 50; i++ {
		s.Put(task(fmt.Sprintf("t%d", i), StatusCompleted))
	}
	if s.Len() != 10 {
		t.Errorf("Len = %d, want 10", s.Len())
	}
	// Newest survive.
	if _, err := s.Get("t49"); err != nil {
		t.Errorf("newest task missing: %v", err)
	}
}
