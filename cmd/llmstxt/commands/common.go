// Package commands implements the llmstxt command line.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/metrics"
	"git.home.luguber.info/inful/llmstxt/internal/orchestrator"
)

// Global is shared with every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"llmstxt.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Process the routes of a finished site build"`
	Generate GenerateCmd `cmd:"" help:"Regenerate outputs from the cached route list"`
	Clean    CleanCmd    `cmd:"" help:"Remove generated Markdown files and llms.txt outputs"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate whenever the built site or the configuration changes"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	setLogger(level)
	return nil
}

func setLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// LoadConfig reads the configuration, falling back to defaults when the file
// does not exist. siteDir, when set, overrides the configured site
// directory. Without --verbose the configured logLevel takes effect.
func (c *CLI) LoadConfig(siteDir string) (*config.Config, error) {
	cfg, err := config.LoadOptional(c.Config)
	if err != nil {
		return nil, err
	}
	if siteDir != "" {
		cfg.Paths.SiteDir = siteDir
	}
	if !c.Verbose {
		setLogger(cfg.SlogLevel())
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runWithMetrics runs fn with a Prometheus recorder when metricsFile is set
// and writes the collected metrics afterwards, also on failure.
func runWithMetrics(o *orchestrator.Orchestrator, metricsFile string, fn func(*orchestrator.Orchestrator) error) error {
	if metricsFile == "" {
		return fn(o)
	}
	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
	runErr := fn(o.WithRecorder(rec))
	if err := rec.WriteTextfile(metricsFile); err != nil {
		slog.Warn("Failed to write metrics", logfields.Path(metricsFile), logfields.Error(err))
	}
	return runErr
}

func logResult(res orchestrator.Result) {
	if res.Outputs.LlmsTxtPath == "" {
		return
	}
	slog.Info("Outputs written",
		logfields.Path(res.Outputs.LlmsTxtPath),
		logfields.Count(res.ProcessedCount),
		slog.Int("content_length", res.Outputs.ContentLength))
}
