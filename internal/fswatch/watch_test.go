package fswatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	w, err := New(root, nil, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	target := filepath.Join(root, "src", "App.jsx")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, target, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcher_Ignored(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, []string{"node_modules", ".hackspace"})
	require.NoError(t, err)
	defer func() { _ = w.fsw.Close() }()

	assert.True(t, w.ignored(filepath.Join(root, "node_modules", "react", "index.js")))
	assert.True(t, w.ignored(filepath.Join(root, ".hackspace", "session.sqlite")))
	assert.False(t, w.ignored(filepath.Join(root, "src", "App.jsx")))
}

func TestWatcher_NotifyKeepsLatest(t *testing.T) {
	w := &Watcher{changes: make(chan string, 1)}
	w.notify("a")
	w.notify("b")
	assert.Equal(t, "b", <-w.Changes())
}
