//go:build integration

package events

import (
	"context"
	"sync"
	"task-store/tasks"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestRedisPublisher_PublishAndRead(t *testing.T) {
	publisher, cleanup := setupRedisTestcontainer(t)
	defer cleanup()

	ctx := context.Background()
	task := tasks.Task{ID: 1, Name: "A", Description: "d1", Complexity: "medium"}

	assert.NilError(t, publisher.Publish(ctx, NewEvent(TaskCreated, 1, &task)))

	depth, err := publisher.Depth(ctx)
	assert.NilError(t, err)
	assert.Equal(t, int64(1), depth)

	event, err := publisher.Next(ctx, time.Second)
	assert.NilError(t, err)
	assert.Equal(t, TaskCreated, event.Type)
	assert.Equal(t, task, *event.Task)
}

func TestRedisPublisher_FIFOOrdering(t *testing.T) {
	publisher, cleanup := setupRedisTestcontainer(t)
	defer cleanup()

	ctx := context.Background()
	for id := 1; id <= 5; id++ {
		assert.NilError(t, publisher.Publish(ctx, NewEvent(TaskDeleted, id, nil)))
	}

	for id := 1; id <= 5; id++ {
		event, err := publisher.Next(ctx, time.Second)
		assert.NilError(t, err)
		assert.Equal(t, id, event.TaskID)
	}
}

func TestRedisPublisher_ConcurrentPublish(t *testing.T) {
	publisher, cleanup := setupRedisTestcontainer(t)
	defer cleanup()

	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := publisher.Publish(ctx, NewEvent(TaskUpdated, id, nil)); err != nil {
				t.Errorf("publish %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	depth, err := publisher.Depth(ctx)
	assert.NilError(t, err)
	assert.Equal(t, int64(n), depth)
}

func TestRedisPublisher_InvalidData(t *testing.T) {
	publisher, cleanup := setupRedisTestcontainer(t)
	defer cleanup()

	ctx := context.Background()
	assert.NilError(t, publisher.client.LPush(ctx, publisher.key, "invalid-json").Err())

	_, err := publisher.Next(ctx, time.Second)
	assert.ErrorContains(t, err, "failed to unmarshal event")
}

func TestRedisPublisher_ConnectionErrors(t *testing.T) {
	_, err := NewRedisPublisher("redis://localhost:1/1", "test")
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestRedisPublisher_Close(t *testing.T) {
	publisher, cleanup := setupRedisTestcontainer(t)
	defer cleanup()

	assert.NilError(t, publisher.Close())

	err := publisher.Publish(context.Background(), NewEvent(TaskDeleted, 1, nil))
	assert.ErrorContains(t, err, "client is closed")
}
