package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Cyclone1070/geoview/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRefresher struct {
	mu    sync.Mutex
	calls map[string]int
}

func (r *countingRefresher) Refresh(ctx context.Context, uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[uri]++
	return nil
}

func (r *countingRefresher) count(uri string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[uri]
}

func startWatcher(t *testing.T, target Refresher, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := New(target, debounce, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return w
}

func openDoc(t *testing.T, dir, name string) editor.Document {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	return editor.Document{URI: "file://" + path, Path: path}
}

func TestWatcher_DebouncedRefresh(t *testing.T) {
	target := &countingRefresher{}
	w := startWatcher(t, target, 100*time.Millisecond)
	doc := openDoc(t, t.TempDir(), "survey.bin")
	w.DocumentOpened(doc)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(doc.Path, []byte{byte(i)}, 0o644))
	}

	require.Eventually(t, func() bool { return target.count(doc.URI) == 1 },
		2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, target.count(doc.URI))
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	target := &countingRefresher{}
	w := startWatcher(t, target, 20*time.Millisecond)
	dir := t.TempDir()
	doc := openDoc(t, dir, "survey.bin")
	w.DocumentOpened(doc)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)

	assert.Zero(t, target.count(doc.URI))
}

func TestWatcher_ClosedDocumentNotRefreshed(t *testing.T) {
	target := &countingRefresher{}
	w := startWatcher(t, target, 20*time.Millisecond)
	dir := t.TempDir()
	a := openDoc(t, dir, "a.bin")
	b := openDoc(t, dir, "b.bin")
	w.DocumentOpened(a)
	w.DocumentOpened(b)

	w.DocumentClosed(a)
	assert.False(t, w.Watching(a.Path))
	assert.True(t, w.Watching(b.Path))

	require.NoError(t, os.WriteFile(a.Path, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(b.Path, []byte("v2"), 0o644))

	require.Eventually(t, func() bool { return target.count(b.URI) == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Zero(t, target.count(a.URI))
}
