package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsTargetOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "region.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: a\n"), 0o644))

	w, err := NewWatcher(target, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("name: b\n"), 0o644))

	select {
	case name := <-w.Events:
		got, err := filepath.Abs(name)
		require.NoError(t, err)
		want, err := filepath.Abs(target)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the watched file")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "region.yaml")
	w, err := NewWatcher(target, DefaultDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Events
	assert.False(t, open)
}

func TestWatcherCoalescesBurst(t *testing.T) {
	target := filepath.Join(t.TempDir(), "region.yaml")
	w, err := NewWatcher(target, 200*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	for _, body := range []string{"a", "ab", "abc"} {
		require.NoError(t, os.WriteFile(target, []byte(body), 0o644))
	}

	select {
	case <-w.Events:
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the burst")
	}
	select {
	case name := <-w.Events:
		t.Fatalf("second event %q for one burst", name)
	case <-time.After(500 * time.Millisecond):
	}
}
