package fsindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/datamover/engine/internal/progress"
	"github.com/datamover/engine/internal/queues"
	"github.com/datamover/engine/internal/taskengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime() *taskengine.RuntimeContext {
	return &taskengine.RuntimeContext{
		Tasks:     queues.New[*taskengine.Task](64),
		IndexData: queues.New[taskengine.IndexDataBatch](64),
		Status:    queues.New[taskengine.StatusMessage](64),
		Progress:  progress.NewMap(),
	}
}

func TestExecuteEmptyDirBubblesImmediately(t *testing.T) {
	dir := t.TempDir()
	rc := newTestRuntime()
	task := taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{Dir: dir, MaxIndexSize: 10})

	require.NoError(t, task.Execute(context.Background(), rc))

	assert.True(t, rc.Progress.Quiescent(dir))
}

func TestExecuteFilesProduceOneIndexDataBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte("22"), 0o644))

	rc := newTestRuntime()
	task := taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{Dir: dir, MaxIndexSize: 10})
	require.NoError(t, task.Execute(context.Background(), rc))

	rc.IndexData.Close()
	batch, ok := rc.IndexData.Pop(context.Background())
	require.True(t, ok)
	assert.Equal(t, dir, batch.Dir)
	assert.ElementsMatch(t, []string{"a", "b"}, batch.Files)
	assert.True(t, rc.Progress.Quiescent(dir))
}

func TestExecuteSubdirSpawnsChildTaskAndHoldsParentOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	rc := newTestRuntime()
	task := taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{Dir: dir, MaxIndexSize: 10})
	require.NoError(t, task.Execute(context.Background(), rc))

	// The parent directory must not be quiescent yet: it is waiting on
	// the child task it just spawned.
	assert.False(t, rc.Progress.Quiescent(dir))

	rc.Tasks.Close()
	child, ok := rc.Tasks.Pop(context.Background())
	require.True(t, ok)

	require.NoError(t, child.Execute(context.Background(), rc))
	assert.True(t, rc.Progress.Quiescent(dir))
}

func TestExecuteMissingDirLogsAndBubblesWithoutPanicking(t *testing.T) {
	rc := newTestRuntime()
	task := taskengine.NewTask(taskengine.EOperation.Index(), taskengine.IndexParams{Dir: "/no/such/dir", MaxIndexSize: 10})

	require.NoError(t, task.Execute(context.Background(), rc))
	assert.True(t, rc.Progress.Quiescent("/no/such/dir"))
}
