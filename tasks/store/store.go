package store

import (
	"context"
	"errors"
	"task-store/tasks"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// TaskStore defines the contract for task storage
type TaskStore interface {
	// List returns every task in insertion order. Never nil.
	List(ctx context.Context) ([]tasks.Task, error)

	// Create assigns the next id and appends the task.
	Create(ctx context.Context, fields tasks.Fields) (tasks.Task, error)

	// Update merges the present fields into the task with the given id.
	// Returns an error wrapping ErrNotFound if there is no such task.
	Update(ctx context.Context, id int, fields tasks.Fields) (tasks.Task, error)

	// Delete removes the task with the given id and reports whether one was removed.
	Delete(ctx context.Context, id int) (bool, error)

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}
