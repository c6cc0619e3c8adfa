package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggersOnDocumentChange(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0644))

	select {
	case <-w.Triggers():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a trigger after a document change")
	}
}

func TestWatcher_IgnoresNonDocuments(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x\n"), 0644))

	select {
	case <-w.Triggers():
		t.Fatal("non-document change must not trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ClosesTriggersOnContextEnd(t *testing.T) {
	dir := t.TempDir()

	w, err := New(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case _, open := <-w.Triggers():
		require.False(t, open, "triggers channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("triggers channel did not close")
	}
}
