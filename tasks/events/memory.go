package events

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when publishing to a closed publisher.
var ErrClosed = errors.New("publisher closed")

// MemoryPublisher delivers events on a buffered channel for in-process consumers.
type MemoryPublisher struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

var _ Publisher = (*MemoryPublisher)(nil)

// NewMemoryPublisher creates a publisher whose channel holds up to buffer events.
func NewMemoryPublisher(buffer int) *MemoryPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &MemoryPublisher{ch: make(chan Event, buffer)}
}

// Publish blocks while the buffer is full, until ctx is done.
func (p *MemoryPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events returns the receive side. It is closed by Close.
func (p *MemoryPublisher) Events() <-chan Event {
	return p.ch
}

func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
