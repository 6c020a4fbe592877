package commands

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/orchestrator"
	"git.home.luguber.info/inful/llmstxt/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	SiteDir  string        `arg:"" optional:"" name:"site-dir" help:"Site directory (overrides paths.siteDir)"`
	Debounce time.Duration `name:"debounce" help:"Quiet period before regenerating" default:"500ms"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig(w.SiteDir)
	if err != nil {
		return err
	}
	dirs := orchestrator.ResolveDirs(cfg)

	ctx, cancel := signalContext()
	defer cancel()

	rebuild := func(ctx context.Context) error {
		// Pick up configuration edits on every run.
		next, err := root.LoadConfig(w.SiteDir)
		if err != nil {
			return err
		}
		res, err := orchestrator.New(next).WithLogger(slog.Default()).Run(ctx, orchestrator.Input{CLI: true})
		if err != nil {
			return err
		}
		logResult(res)
		return nil
	}

	// An initial run brings the outputs up to date with the cache.
	if err := rebuild(ctx); err != nil {
		slog.Warn("Initial generation failed", logfields.Error(err))
	}

	watcher := watch.New(rebuild).
		WithLogger(slog.Default()).
		WithDebounce(w.Debounce).
		AddTree(dirs.OutDir)
	if _, err := os.Stat(root.Config); err == nil {
		watcher.AddFile(root.Config)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return watcher.Run(ctx)
}
