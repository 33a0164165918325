package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/moviescope/internal/dataset"
	"github.com/leapstack-labs/moviescope/internal/testutil"
)

func newWatchServer(t *testing.T, dir string) *Server {
	t.Helper()
	return NewServer(Config{
		Cache:         dataset.NewCache(dataset.NewLoader()),
		DataPath:      "missing.csv",
		Dev:           true,
		SessionSecret: "test-secret-key-32-bytes-long!!",
		Logger:        testutil.NewTestLogger(t),
		WatchDir:      dir,
	})
}

func TestServer_WatchFilesReloadsOnAssetChange(t *testing.T) {
	dir := t.TempDir()
	srv := newWatchServer(t, dir)
	updates, unsubscribe := srv.Notifier().Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.watchFiles(ctx) }()

	// Keep touching the stylesheet until the watcher is registered and fires.
	css := filepath.Join(dir, "app.css")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	reloaded := false
	for !reloaded {
		select {
		case <-updates:
			reloaded = true
		case <-tick.C:
			require.NoError(t, os.WriteFile(css, []byte("body{}"), 0600))
		case <-deadline:
			t.Fatal("no reload after editing app.css")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestServer_WatchFilesIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	srv := newWatchServer(t, dir)
	updates, unsubscribe := srv.Notifier().Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.watchFiles(ctx) }()

	for range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case <-updates:
		t.Fatal("reload for a non-asset file")
	case <-time.After(3 * reloadDebounce):
	}
}

func TestServer_WatchFilesMissingDir(t *testing.T) {
	srv := newWatchServer(t, filepath.Join(t.TempDir(), "absent"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.watchFiles(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "a missing directory does not stop the server")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
