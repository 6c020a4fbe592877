package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/hostroutes"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/orchestrator"
)

// BuildCmd implements the 'build' command, run after the host site build.
type BuildCmd struct {
	Routes       string `name:"routes" short:"r" help:"Route manifest written by the site build" required:"" type:"existingfile"`
	SiteDir      string `name:"site-dir" help:"Site directory (overrides paths.siteDir)"`
	OutDir       string `name:"out-dir" short:"o" help:"Build output directory (overrides paths.outDir)"`
	GeneratedDir string `name:"generated-dir" help:"Generated-files directory holding the cache (overrides paths.generatedFilesDir)"`
	MetricsFile  string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig(b.SiteDir)
	if err != nil {
		return err
	}
	if !cfg.RunOnPostBuild {
		slog.Info("runOnPostBuild is disabled, skipping")
		return nil
	}
	if b.OutDir != "" {
		cfg.Paths.OutDir = b.OutDir
	}
	if b.GeneratedDir != "" {
		cfg.Paths.GeneratedFilesDir = b.GeneratedDir
	}

	manifest, err := hostroutes.Load(b.Routes)
	if err != nil {
		return err
	}
	MergeSite(cfg, manifest.Site())
	routes := manifest.Flatten()
	slog.Info("Loaded route manifest", "routes", len(routes))

	ctx, cancel := signalContext()
	defer cancel()

	return runWithMetrics(orchestrator.New(cfg).WithLogger(slog.Default()), b.MetricsFile, func(o *orchestrator.Orchestrator) error {
		res, err := o.Run(ctx, orchestrator.Input{Routes: routes})
		if err != nil {
			return err
		}
		logResult(res)
		return nil
	})
}

// MergeSite fills site fields the configuration leaves empty from the host
// build's metadata.
func MergeSite(cfg *config.Config, site model.SiteInfo) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = site.Title
	}
	if cfg.Site.URL == "" {
		cfg.Site.URL = site.URL
	}
	if (cfg.Site.BaseURL == "" || cfg.Site.BaseURL == "/") && site.BaseURL != "" {
		cfg.Site.BaseURL = site.BaseURL
	}
	if cfg.Site.TrailingSlash == nil {
		cfg.Site.TrailingSlash = site.TrailingSlash
	}
	config.ApplyDefaults(cfg)
}
