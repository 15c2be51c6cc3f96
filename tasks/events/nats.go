package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes JSON events on a single subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

var _ Publisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url,
		nats.Name("task-store"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return NewNATSPublisherFromConn(conn, subject), nil
}

// NewNATSPublisherFromConn wraps an existing connection.
func NewNATSPublisherFromConn(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn.IsClosed() {
		return ErrClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close flushes pending events before closing the connection.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}
