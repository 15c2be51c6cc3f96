package events

import (
	"context"
	"sync"
	"sync/atomic"
	"task-store/logger"
	"time"
)

// AsyncPublisher hands events to a pool of workers that forward them to the
// wrapped publisher. With a single worker, delivery order matches publish order.
type AsyncPublisher struct {
	next            Publisher
	logger          *logger.Logger
	queue           chan Event
	workers         int
	shutdownTimeout time.Duration

	wg       sync.WaitGroup
	mu       sync.RWMutex // protects closed and queue sends
	closed   bool
	dropped  atomic.Int64
	closeErr error
}

var _ Publisher = (*AsyncPublisher)(nil)

// NewAsyncPublisher starts workerCount workers draining a queue of bufferSize events.
func NewAsyncPublisher(next Publisher, workerCount, bufferSize int, lg *logger.Logger) *AsyncPublisher {
	if workerCount < 1 {
		workerCount = 1
	}
	if bufferSize < 1 {
		bufferSize = 256
	}

	p := &AsyncPublisher{
		next:            next,
		logger:          lg,
		queue:           make(chan Event, bufferSize),
		workers:         workerCount,
		shutdownTimeout: 10 * time.Second,
	}

	p.logger.Info("starting event workers", map[string]any{
		"worker_count": workerCount,
		"buffer_size":  bufferSize,
	})

	for i := range workerCount {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.work(id)
		}(i + 1)
	}

	return p
}

// Publish never blocks: when the queue is full the event is dropped and logged.
func (p *AsyncPublisher) Publish(_ context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- event:
		return nil
	default:
		p.dropped.Add(1)
		p.logger.Warn("event queue full, dropping event", map[string]any{
			"task_id":    event.TaskID,
			"event_type": string(event.Type),
		})
		return nil
	}
}

func (p *AsyncPublisher) work(id int) {
	for event := range p.queue {
		// Detached from the request context; the request has already returned
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.Warn("failed to deliver task event", map[string]any{
				"worker_id":  id,
				"task_id":    event.TaskID,
				"event_type": string(event.Type),
				"error":      err.Error(),
			})
		}
		cancel()
	}
}

// Close stops accepting events, waits for queued ones to be delivered (bounded
// by the shutdown timeout) and closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return p.closeErr
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("event workers stopped", map[string]any{
			"dropped": p.Dropped(),
		})
	case <-time.After(p.shutdownTimeout):
		p.logger.Warn("event workers shutdown timed out", map[string]any{
			"timeout": p.shutdownTimeout.String(),
			"pending": len(p.queue),
		})
	}

	p.mu.Lock()
	p.closeErr = p.next.Close()
	p.mu.Unlock()
	return p.closeErr
}

// Dropped returns how many events were discarded because the queue was full.
func (p *AsyncPublisher) Dropped() int64 {
	return p.dropped.Load()
}
