package events

import (
	"context"
	"fmt"
	"task-store/config"
	"task-store/tasks"
	"time"
)

// EventType names the mutation that produced an event
type EventType string

const (
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"
)

// Event describes one successful mutation of the task collection.
// Task is omitted for deletions.
type Event struct {
	Type      EventType   `json:"type"`
	TaskID    int         `json:"task_id"`
	Task      *tasks.Task `json:"task,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(eventType EventType, taskID int, task *tasks.Task) Event {
	return Event{
		Type:      eventType,
		TaskID:    taskID,
		Task:      task,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers task events to an external change feed
type Publisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event Event) error

	// Close cleanly shuts down the underlying connection
	Close() error
}

// NopPublisher discards every event. Used when no backend is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// New builds the publisher selected by cfg.EventsBackend.
func New(cfg *config.Config) (Publisher, error) {
	switch cfg.EventsBackend {
	case config.EventsBackendNone, "":
		return NopPublisher{}, nil
	case config.EventsBackendRedis:
		return NewRedisPublisher(cfg.RedisURL, cfg.RedisEventsKey)
	case config.EventsBackendNATS:
		return NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
	default:
		return nil, fmt.Errorf("unsupported events backend: %s", cfg.EventsBackend)
	}
}
