package orchestrator

import (
	"errors"
	"sync"
)

// ErrTaskNotFound is returned when looking up an unknown task id.
var ErrTaskNotFound = errors.New("task not found")

const defaultMaxTasks = 1000

// Store keeps task states in memory for the process lifetime. It is
// safe for concurrent insert and lookup; each run writes snapshots of
// its own task, so readers never see a half-appended step list.
//
// Capacity is bounded: once full, the oldest terminal task is evicted.
// Running tasks are never evicted.
type Store struct {
	mu       sync.RWMutex
	tasks    map[string]*TaskState
	order    []string
	maxTasks int
}

// NewStore creates a task store. maxTasks <= 0 uses the default bound.
func NewStore(maxTasks int) *Store {
	if maxTasks <= 0 {
		maxTasks = defaultMaxTasks
	}
	return &Store{
		tasks:    make(map[string]*TaskState),
		maxTasks: maxTasks,
	}
}

// Put stores a snapshot of the task state, replacing any previous
// snapshot for the same id.
func (s *Store) Put(t *TaskState) {
	snapshot := t.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.tasks[snapshot.ID]
	s.tasks[snapshot.ID] = snapshot
	if !exists {
		s.order = append(s.order, snapshot.ID)
		s.evictLocked()
	}
}

// Get returns a copy of the task state for the id.
func (s *Store) Get(id string) (*TaskState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) evictLocked() {
	for len(s.tasks) > s.maxTasks {
		evicted := false
		for i, id := range s.order {
			t, ok := s.tasks[id]
			if !ok {
				s.order = append(s.order[:i], s.order[i+1:]...)
				evicted = true
				break
			}
			if t.Status.Terminal() {
				delete(s.tasks, id)
				s.order = append(s.order[:i], s.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return // everything left is still running
		}
	}
}
