package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/orchestrator"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	SiteDir    string `arg:"" optional:"" name:"site-dir" help:"Site directory (overrides paths.siteDir)"`
	ClearCache bool   `name:"clear-cache" help:"Also remove the cache directory"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig(c.SiteDir)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := orchestrator.New(cfg).WithLogger(slog.Default()).Clean(ctx, c.ClearCache)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d generated files\n", res.RemovedFiles)
	if res.CacheCleared {
		fmt.Println("Cache cleared")
	}
	return nil
}
