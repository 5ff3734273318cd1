package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRelevant(t *testing.T) {
	w := New(nil, ".md", nil)
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create md", fsnotify.Event{Name: "classes/Viewer.md", Op: fsnotify.Create}, true},
		{"write md", fsnotify.Event{Name: "classes/Viewer.md", Op: fsnotify.Write}, true},
		{"rename md", fsnotify.Event{Name: "classes/Viewer.md", Op: fsnotify.Rename}, true},
		{"remove md", fsnotify.Event{Name: "classes/Viewer.md", Op: fsnotify.Remove}, false},
		{"chmod md", fsnotify.Event{Name: "classes/Viewer.md", Op: fsnotify.Chmod}, false},
		{"write txt", fsnotify.Event{Name: "classes/notes.txt", Op: fsnotify.Write}, false},
		{"editor swap", fsnotify.Event{Name: "classes/.Viewer.md.swp", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestRun_DebouncesBurstIntoOneRun(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := New([]string{dir}, ".md", func(context.Context) { runs.Add(1) },
		WithDebounce(100*time.Millisecond), quiet())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("# x\n"), 0o600))
	}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := New([]string{dir}, ".md", func(context.Context) { runs.Add(1) },
		WithDebounce(50*time.Millisecond), quiet())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(0), runs.Load())
}

func TestRun_NoWatchableFolder(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, ".md", func(context.Context) {}, quiet())

	err := w.Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
