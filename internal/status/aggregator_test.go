package status

import (
	"context"
	"testing"
	"time"

	"github.com/datamover/engine/internal/queues"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRunFoldsStatusMessagesIntoCounters(t *testing.T) {
	before := testutil.ToFloat64(batchesTotal)

	q := queues.New[taskengine.StatusMessage](4)
	ctx := context.Background()
	require.NoError(t, q.Push(ctx, taskengine.StatusMessage{Success: 3, Failure: 1, Size: 50}))
	q.Close()

	done := make(chan struct{})
	go func() {
		Run(context.Background(), q)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the queue closed and drained")
	}

	require.Equal(t, before+1, testutil.ToFloat64(batchesTotal))
}
