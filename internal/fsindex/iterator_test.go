package fsindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Entry) []Entry {
	t.Helper()
	var entries []Entry
	for e := range ch {
		entries = append(entries, e)
	}
	return entries
}

func TestIterateEmptyDirYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	ch, err := Iterate(context.Background(), dir, 10)
	require.NoError(t, err)
	assert.Empty(t, drain(t, ch))
}

func writeFiles(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i)))
		require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
	}
}

func TestIterateExactlyMaxIndexSizeIsOneBatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 3)

	ch, err := Iterate(context.Background(), dir, 3)
	require.NoError(t, err)
	entries := drain(t, ch)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Files, 3)
}

// The file that arrives when a batch already holds maxIndexSize entries
// becomes the first entry of the *next* batch (spec.md §4.B, §9 off-by-one kept
// intentionally): four files at maxIndexSize=3 yields batches of
// sizes [3,1], not [2,2] or [3] overflowing to 4.
func TestIterateOverflowStartsNewBatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 4)

	ch, err := Iterate(context.Background(), dir, 3)
	require.NoError(t, err)
	entries := drain(t, ch)
	require.Len(t, entries, 2)
	assert.Len(t, entries[0].Files, 3)
	assert.Len(t, entries[1].Files, 1)
}

func TestIterateMixedFilesAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 2)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	ch, err := Iterate(context.Background(), dir, 10)
	require.NoError(t, err)
	entries := drain(t, ch)

	var subdirs, batches int
	for _, e := range entries {
		switch e.Kind {
		case EntrySubdir:
			subdirs++
			assert.Equal(t, filepath.Join(dir, "sub"), e.SubdirPath)
		case EntryBatch:
			batches++
			assert.Len(t, e.Files, 2)
		}
	}
	assert.Equal(t, 1, subdirs)
	assert.Equal(t, 1, batches)
}

func TestIterateFollowsSymlinkToDirAsSubdir(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	ch, err := Iterate(context.Background(), dir, 10)
	require.NoError(t, err)
	entries := drain(t, ch)
	require.Len(t, entries, 1)
	assert.Equal(t, EntrySubdir, entries[0].Kind)
}

func TestIterateBrokenSymlinkIsTreatedAsFile(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "broken")
	if err := os.Symlink(filepath.Join(dir, "does-not-exist"), link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	ch, err := Iterate(context.Background(), dir, 10)
	require.NoError(t, err)
	entries := drain(t, ch)
	require.Len(t, entries, 1)
	assert.Equal(t, EntryBatch, entries[0].Kind)
	assert.Equal(t, []string{"broken"}, entries[0].Files)
}

func TestIterateMissingDirReturnsError(t *testing.T) {
	_, err := Iterate(context.Background(), "/no/such/directory/at/all", 10)
	assert.Error(t, err)
}
