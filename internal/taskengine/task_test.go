package taskengine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskIDsAreUnique(t *testing.T) {
	seen := make(map[int64]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	const n = 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := NewTask(EOperation.Index(), IndexParams{})
			mu.Lock()
			seen[task.ID()] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "concurrent producers must never collide on a task id")
}

func TestExecuteDispatchesToRegisteredExecutor(t *testing.T) {
	var called bool
	RegisterExecutor(Operation(200), func(ctx context.Context, t *Task, rc *RuntimeContext) error {
		called = true
		return nil
	})

	task := NewTask(Operation(200), nil)
	require.NoError(t, task.Execute(context.Background(), &RuntimeContext{}))
	assert.True(t, called)
}

func TestExecuteUnregisteredOperationReturnsError(t *testing.T) {
	task := NewTask(Operation(201), nil)
	err := task.Execute(context.Background(), &RuntimeContext{})
	assert.Error(t, err)
}

func TestExecuteRecoversPanicAsLoggedNonPropagatingError(t *testing.T) {
	RegisterExecutor(Operation(202), func(ctx context.Context, t *Task, rc *RuntimeContext) error {
		panic("boom")
	})

	task := NewTask(Operation(202), nil)
	err := task.Execute(context.Background(), &RuntimeContext{})
	assert.NoError(t, err, "a panicking executor must not propagate past the task boundary")
}

func TestExecuteExecutorErrorIsSwallowedAfterLogging(t *testing.T) {
	RegisterExecutor(Operation(203), func(ctx context.Context, t *Task, rc *RuntimeContext) error {
		return assert.AnError
	})

	task := NewTask(Operation(203), nil)
	err := task.Execute(context.Background(), &RuntimeContext{})
	assert.NoError(t, err, "an executor's own error is logged, not retried or propagated")
}
