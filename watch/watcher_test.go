package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()
	w, err := New(Config{Debounce: 50 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(paths...))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	w.Start(ctx)
	t.Cleanup(func() { w.Stop() })

	// Give the watcher time to set up.
	time.Sleep(100 * time.Millisecond)
	return w
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for watch event")
		return Event{}
	}
}

func TestNewNormalizesConfig(t *testing.T) {
	w, err := New(Config{Extensions: []string{"ttl", ".NT"}}, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.extensions[".ttl"])
	assert.True(t, w.extensions[".nt"])
	assert.Equal(t, DefaultConfig().Debounce, w.config.Debounce)
}

func TestWatchFileModification(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nidm.ttl")
	require.NoError(t, os.WriteFile(file, []byte("# initial\n"), 0644))

	w := startWatcher(t, file)

	require.NoError(t, os.WriteFile(file, []byte("# changed\n"), 0644))
	ev := nextEvent(t, w)
	assert.Equal(t, OpModify, ev.Op)
	assert.Equal(t, file, ev.Path)
}

func TestWatchIgnoresUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nidm.ttl")
	other := filepath.Join(dir, "reference.ttl")
	require.NoError(t, os.WriteFile(file, []byte("# same\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("# other\n"), 0644))

	w := startWatcher(t, file)

	// Rewriting identical content and touching an unwatched sibling must not
	// produce events.
	require.NoError(t, os.WriteFile(file, []byte("# same\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("# other changed\n"), 0644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	created := filepath.Join(dir, "candidate.ttl")
	require.NoError(t, os.WriteFile(created, []byte("# new\n"), 0644))
	ev := nextEvent(t, w)
	assert.Equal(t, OpCreate, ev.Op)
	assert.Equal(t, created, ev.Path)

	require.NoError(t, os.Remove(created))
	ev = nextEvent(t, w)
	assert.Equal(t, OpDelete, ev.Op)
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(DefaultConfig(), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing.ttl")))
}
