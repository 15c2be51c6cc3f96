package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"task-store/tasks"
)

// Compile-time check to ensure MemoryTaskStore implements TaskStore interface
var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore keeps tasks in an ordered slice guarded by a single lock.
// The id counter lives under the same lock, so ids are unique and strictly
// increasing and are never handed out twice, even after a delete.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  []tasks.Task
	nextID int
}

// NewMemoryTaskStore creates an empty store whose first id is 1.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks:  make([]tasks.Task, 0),
		nextID: 1,
	}
}

// List returns a copy of all tasks so callers cannot mutate stored state.
func (s *MemoryTaskStore) List(_ context.Context) ([]tasks.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks), nil
}

// Create appends a new task. Required fields are the caller's concern.
func (s *MemoryTaskStore) Create(_ context.Context, fields tasks.Fields) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := tasks.NewTask(s.nextID, fields)
	s.tasks = append(s.tasks, task)
	s.nextID++

	return task, nil
}

// Update does a linear scan; the expected collection is small.
func (s *MemoryTaskStore) Update(_ context.Context, id int, fields tasks.Fields) (tasks.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return tasks.Task{}, fmt.Errorf("task with ID %d: %w", id, ErrNotFound)
	}

	s.tasks[i].Apply(fields)
	return s.tasks[i], nil
}

// Delete is a no-op for unknown ids.
func (s *MemoryTaskStore) Delete(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true, nil
}

func (s *MemoryTaskStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks), nil
}

// indexOf must be called with the lock held.
func (s *MemoryTaskStore) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t tasks.Task) bool { return t.ID == id })
}
