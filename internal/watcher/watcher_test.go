package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, rec *recorder, paths ...string) {
	t.Helper()
	w, err := New(rec.record, zaptest.NewLogger(t), paths...)
	require.NoError(t, err)
	w.WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// give the watcher time to register its directories
	time.Sleep(100 * time.Millisecond)
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(graph, []byte("{}"), 0o644))

	rec := &recorder{}
	startWatcher(t, rec, graph)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(graph, []byte(`{"nodes":[]}`), 0o644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, graph, got[0])
}

func TestWatchMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "graph.yaml")
	cfg := filepath.Join(t.TempDir(), "ast3d.yaml")
	other := filepath.Join(dir, "notes.txt")

	rec := &recorder{}
	startWatcher(t, rec, graph, cfg, "")

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(graph, []byte("nodes: []"), 0o644))
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: debug\n"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{graph, cfg}, rec.snapshot())
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New(func(string) {}, nil, filepath.Join(t.TempDir(), "missing", "graph.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Files())
	assert.Error(t, w.Watch(context.Background()))
}

func TestWatchStopsOnCancel(t *testing.T) {
	w, err := New(func(string) {}, nil, filepath.Join(t.TempDir(), "graph.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
