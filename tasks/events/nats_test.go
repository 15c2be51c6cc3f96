package events

import (
	"context"
	"encoding/json"
	"os"
	"task-store/tasks"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

// natsConn connects to NATS_URL (or the default local server) or skips the test.
func natsConn(t *testing.T) *nats.Conn {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping NATS test in short mode")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Timeout(2*time.Second), nats.MaxReconnects(0))
	if err != nil {
		t.Skipf("skipping: NATS not available at %s: %v", url, err)
	}
	return conn
}

func TestNATSPublisher_PublishesJSONEvents(t *testing.T) {
	conn := natsConn(t)
	defer conn.Close()

	subject := "test.tasks.events"
	sub, err := conn.SubscribeSync(subject)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	p := NewNATSPublisherFromConn(conn, subject)
	task := tasks.Task{ID: 1, Name: "A", Description: "d1", Complexity: "medium"}
	require.NoError(t, p.Publish(context.Background(), NewEvent(TaskCreated, 1, &task)))
	require.NoError(t, conn.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, TaskCreated, event.Type)
	assert.Equal(t, 1, event.TaskID)
	assert.Equal(t, task, *event.Task)
}

func TestNATSPublisher_PublishAfterClose(t *testing.T) {
	conn := natsConn(t)
	conn.Close()

	p := NewNATSPublisherFromConn(conn, "test.tasks.closed")

	err := p.Publish(context.Background(), NewEvent(TaskDeleted, 1, nil))
	assert.ErrorIs(t, err, ErrClosed)
	assert.NilError(t, p.Close())
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	conn := natsConn(t)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewNATSPublisherFromConn(conn, "test.tasks.cancelled")
	err := p.Publish(ctx, NewEvent(TaskDeleted, 1, nil))
	assert.ErrorIs(t, err, context.Canceled)
}
