package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/orchestrator"
)

// GenerateCmd implements the 'generate' command: a run without live routes
// that regenerates the outputs from the cache.
type GenerateCmd struct {
	SiteDir     string `arg:"" optional:"" name:"site-dir" help:"Site directory (overrides paths.siteDir)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g.SiteDir)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return runWithMetrics(orchestrator.New(cfg).WithLogger(slog.Default()), g.MetricsFile, func(o *orchestrator.Orchestrator) error {
		res, err := o.Run(ctx, orchestrator.Input{CLI: true})
		if err != nil {
			return err
		}
		logResult(res)
		return nil
	})
}
