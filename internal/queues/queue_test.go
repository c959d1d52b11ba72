package queues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopRoundTrip(t *testing.T) {
	q := New[int](4)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, 7))
	v, ok := q.Pop(ctx)
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestPopAfterCloseDrainsThenReportsClosed(t *testing.T) {
	q := New[int](4)
	ctx := context.Background()
	require.NoError(t, q.Push(ctx, 1))
	require.NoError(t, q.Push(ctx, 2))
	q.Close()

	v, ok := q.Pop(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = q.Pop(ctx)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.Pop(ctx)
	assert.False(t, ok, "pop on a closed, drained queue reports !ok")
}

func TestPushBlocksUntilContextCancelled(t *testing.T) {
	q := New[int](1)
	ctx := context.Background()
	require.NoError(t, q.Push(ctx, 1)) // fills the one-deep buffer

	cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := q.Push(cctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPopReturnsFalseOnContextCancellation(t *testing.T) {
	q := New[int](1)
	cctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := q.Pop(cctx)
	assert.False(t, ok)
}

func TestLenReflectsBufferedItems(t *testing.T) {
	q := New[int](4)
	ctx := context.Background()
	assert.Equal(t, 0, q.Len())
	require.NoError(t, q.Push(ctx, 1))
	require.NoError(t, q.Push(ctx, 2))
	assert.Equal(t, 2, q.Len())
}
