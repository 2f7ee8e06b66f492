package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDeliversTasks(t *testing.T) {
	delivered := make(chan string, 2)
	queue := NewQueue("sms", func(_ context.Context, task Task[string]) error {
		delivered <- task.Payload
		return nil
	}, Config{Workers: 2})

	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task[string]{ID: "1", Payload: "hello"}))
	require.NoError(t, queue.Enqueue(Task[string]{ID: "2", Payload: "world"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case payload := <-delivered:
			got[payload] = true
		case <-time.After(time.Second):
			t.Fatal("task not delivered")
		}
	}
	assert.True(t, got["hello"])
	assert.True(t, got["world"])
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var attempts int32
	failed := make(chan Task[int], 1)
	queue := NewQueue("sms", func(_ context.Context, _ Task[int]) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("gateway down")
	}, Config{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	queue.OnFailure(func(task Task[int], _ error) { failed <- task })

	queue.Start(context.Background())
	defer queue.Stop()
	require.NoError(t, queue.Enqueue(Task[int]{ID: "x", Payload: 1}))

	select {
	case task := <-failed:
		assert.Equal(t, 3, task.Attempt)
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(time.Second):
		t.Fatal("failure hook not invoked")
	}
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	queue := NewQueue("sms", func(context.Context, Task[string]) error { return nil }, Config{})
	assert.Error(t, queue.Enqueue(Task[string]{ID: "1"}))
}
