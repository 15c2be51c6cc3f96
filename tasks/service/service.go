package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"task-store/errors"
	"task-store/logger"
	"task-store/tasks"
	"task-store/tasks/events"
	"task-store/tasks/store"
)

// TaskService defines the operations exposed over HTTP.
type TaskService interface {
	// List returns every task in insertion order.
	List(ctx context.Context) ([]tasks.Task, error)

	// Create validates required fields and stores a new task.
	Create(ctx context.Context, fields tasks.Fields) (tasks.Task, error)

	// Update merges fields into an existing task.
	Update(ctx context.Context, id int, fields tasks.Fields) (tasks.Task, error)

	// Delete removes a task. Unknown ids are not an error.
	Delete(ctx context.Context, id int) error

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}

type service struct {
	store     store.TaskStore
	publisher events.Publisher
	logger    *logger.Logger
}

var _ TaskService = (*service)(nil)

// NewTaskService wires a store and an event publisher. A nil publisher
// disables the change feed.
func NewTaskService(s store.TaskStore, p events.Publisher, lg *logger.Logger) TaskService {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &service{
		store:     s,
		publisher: p,
		logger:    lg,
	}
}

func (s *service) List(ctx context.Context) ([]tasks.Task, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks", map[string]any{
			"error": err.Error(),
		})
		return nil, errors.NewInternalError("failed to list tasks")
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, fields tasks.Fields) (tasks.Task, error) {
	if missing := fields.Missing(); missing != "" {
		s.logger.Debug("task creation rejected", map[string]any{
			"missing_field": missing,
		})
		return tasks.Task{}, errors.NewMissingFieldError(missing)
	}

	task, err := s.store.Create(ctx, fields)
	if err != nil {
		s.logger.Error("failed to create task", map[string]any{
			"error": err.Error(),
		})
		return tasks.Task{}, errors.NewInternalError("failed to create task")
	}

	s.logger.Task(task.ID, "task created", map[string]any{
		"complexity": task.Complexity,
	})
	s.publish(ctx, events.NewEvent(events.TaskCreated, task.ID, &task))

	return task, nil
}

func (s *service) Update(ctx context.Context, id int, fields tasks.Fields) (tasks.Task, error) {
	if fields.Empty() {
		s.logger.Debug("empty update, task left unchanged", map[string]any{
			"task_id": id,
		})
	}

	task, err := s.store.Update(ctx, id, fields)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			s.logger.Debug("task update target not found", map[string]any{
				"task_id": id,
			})
			return tasks.Task{}, errors.NewNotFoundError("Task not found")
		}
		s.logger.Error("failed to update task", map[string]any{
			"task_id": id,
			"error":   err.Error(),
		})
		return tasks.Task{}, errors.NewInternalError(fmt.Sprintf("failed to update task %d", id))
	}

	s.logger.Task(task.ID, "task updated", map[string]any{
		"name_changed":        fields.Name != nil,
		"description_changed": fields.Description != nil,
		"complexity_changed":  fields.Complexity != nil,
	})
	s.publish(ctx, events.NewEvent(events.TaskUpdated, task.ID, &task))

	return task, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete task", map[string]any{
			"task_id": id,
			"error":   err.Error(),
		})
		return errors.NewInternalError(fmt.Sprintf("failed to delete task %d", id))
	}

	if !removed {
		s.logger.Debug("delete of unknown task ignored", map[string]any{
			"task_id": id,
		})
		return nil
	}

	s.logger.Task(id, "task deleted")
	s.publish(ctx, events.NewEvent(events.TaskDeleted, id, nil))

	return nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// publish never fails the caller; the mutation already happened.
func (s *service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish task event", map[string]any{
			"task_id":    event.TaskID,
			"event_type": string(event.Type),
			"error":      err.Error(),
		})
	}
}
