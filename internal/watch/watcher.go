// Package watch re-runs a batch operation whenever markdown files appear or
// change in the watched folders.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/apidocfm/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocfm/internal/logfields"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a doc generator produces.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one batch run.
type RunFunc func(ctx context.Context)

// Watcher monitors folders and triggers debounced runs. Runs never overlap:
// events arriving during a run schedule one follow-up run.
type Watcher struct {
	dirs     []string
	ext      string
	run      RunFunc
	debounce time.Duration
	logger   *slog.Logger
	pending  chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a run starts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher over dirs reacting to files with extension ext.
func New(dirs []string, ext string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		ext:      ext,
		run:      run,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		pending:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled. Folders that cannot be watched are
// logged and skipped; an error is returned only when none can be watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "create file watcher").Build()
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	watched := 0
	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("Cannot watch folder", slog.String("path", dir), logfields.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.ConfigError("no category folder could be watched").
			WithContext("folders", w.dirs).
			Build()
	}
	w.logger.Info("Watching for changes", logfields.Count(watched), slog.Duration("debounce", w.debounce))

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.runLoop(ctx)
	}()

	w.watchLoop(ctx, fw)
	<-done
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			w.trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

// runLoop executes debounced runs one at a time.
func (w *Watcher) runLoop(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pending:
			timer.Reset(w.debounce)
		case <-timer.C:
			w.run(ctx)
		}
	}
}

// trigger schedules a run; a run already pending absorbs the request.
func (w *Watcher) trigger() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// relevant reports whether event may need a run: a file with the watched
// extension was created, written or renamed into place.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != w.ext {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
