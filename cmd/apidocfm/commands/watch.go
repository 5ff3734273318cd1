package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/apidocfm/internal/pipeline"
	"git.home.luguber.info/inful/apidocfm/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before a run starts" default:"500ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	b, err := root.newBatch(pipeline.Options{})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := func(ctx context.Context) {
		// Run errors are reported per run; watching continues.
		if err := root.finish(g, b, b.runner.Inject(ctx)); err != nil {
			slog.Error("Run finished with errors", slog.String("error", err.Error()))
		}
	}

	// Catch up on anything generated before the watcher started.
	run(ctx)

	watcher := watch.New(b.runner.Folders(), pipeline.MarkdownExt, run, watch.WithDebounce(w.Debounce))
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	slog.Info("Watcher stopped")
	return nil
}
