// Package orchestrator runs one complete llms.txt generation: it guards the
// cache with a lock, decides whether cached results can be reused and hands
// the routes to the processing coordinator.
package orchestrator

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/generate"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/metrics"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/processing"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
	"git.home.luguber.info/inful/llmstxt/internal/version"
)

// Input is one run. Routes come from the host build. A CLI run ignores
// Routes and regenerates from the cached route list.
type Input struct {
	CLI    bool
	Routes []model.Route
}

// Result summarizes a run.
type Result struct {
	RunID          string
	ProcessedCount int
	CachedCount    int
	FailedCount    int
	Outputs        generate.Outputs
	CopyDataPath   string
}

// Dirs are the resolved directories of a run.
type Dirs struct {
	SiteDir           string
	OutDir            string
	GeneratedFilesDir string
}

// ResolveDirs resolves the configured paths. Relative output and generated
// directories are taken relative to the site directory.
func ResolveDirs(cfg *config.Config) Dirs {
	site := cfg.Paths.SiteDir
	if site == "" {
		site = "."
	}
	rel := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(site, p)
	}
	return Dirs{
		SiteDir:           site,
		OutDir:            rel(cfg.Paths.OutDir),
		GeneratedFilesDir: rel(cfg.Paths.GeneratedFilesDir),
	}
}

// Orchestrator runs generations for one configuration.
type Orchestrator struct {
	cfg      *config.Config
	registry *transform.Registry
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// New returns an orchestrator for cfg. cfg must already be validated.
func New(cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

// WithLogger sets the logger.
func (o *Orchestrator) WithLogger(l *slog.Logger) *Orchestrator {
	if l != nil {
		o.logger = l
	}
	return o
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// WithRegistry sets the stage registry used by the converter.
func (o *Orchestrator) WithRegistry(r *transform.Registry) *Orchestrator {
	o.registry = r
	return o
}

// Dirs returns the resolved directories.
func (o *Orchestrator) Dirs() Dirs { return ResolveDirs(o.cfg) }

// Run executes one generation.
func (o *Orchestrator) Run(ctx context.Context, in Input) (res Result, err error) {
	res.RunID = uuid.NewString()
	logger := o.logger.With(logfields.RunID(res.RunID))
	start := o.now()
	defer func() {
		o.recorder.ObserveRunDuration(time.Since(start))
		switch {
		case err != nil:
			o.recorder.IncRunOutcome(metrics.OutcomeFailed)
		case res.Outputs.LlmsTxtPath == "":
			o.recorder.IncRunOutcome(metrics.OutcomeEmpty)
		default:
			o.recorder.IncRunOutcome(metrics.OutcomeSuccess)
		}
	}()

	dirs := o.Dirs()
	store := cache.NewStore(dirs.GeneratedFilesDir).WithLogger(logger)
	// A CLI run without a cache is rejected before the lock creates the
	// cache directory.
	if in.CLI {
		if err := cache.ValidateCLI(store.Peek()); err != nil {
			return res, err
		}
	}
	lock, err := cache.AcquireLock(store.Dir())
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			logger.Warn("Failed to release cache lock", logfields.Error(rerr))
		}
	}()

	cached := store.Load()
	hash, err := config.Hash(o.cfg)
	if err != nil {
		return res, err
	}

	decision := cache.Analyze(cached, hash, in.CLI, len(in.Routes))
	logger.Info("Cache analysis", logfields.Reason(decision.Reason), slog.Bool("use_cache", decision.UseCache))
	if in.CLI {
		// The cache may have changed while waiting for the lock.
		if err := cache.ValidateCLI(cached); err != nil {
			return res, err
		}
	}

	engine, err := routerules.New(o.cfg)
	if err != nil {
		return res, err
	}

	outcome, err := processing.NewCoordinator(o.cfg, engine, store, o.registry, processing.Dirs{
		SiteDir: dirs.SiteDir,
		OutDir:  dirs.OutDir,
	}).WithLogger(logger).WithRecorder(o.recorder).Run(ctx, processing.Request{
		CLI:           in.CLI,
		Routes:        in.Routes,
		Cache:         cached,
		UseCache:      decision.UseCache,
		ConfigHash:    hash,
		PluginVersion: version.Version,
	})
	if err != nil {
		return res, err
	}

	res.ProcessedCount = len(outcome.Docs)
	res.CachedCount = outcome.Stats.Cached
	res.FailedCount = outcome.Stats.Failed
	res.Outputs = outcome.Outputs

	if o.cfg.UI.CopyPageContent {
		p, err := generate.WriteCopyContentData(outcome.Entries, dirs.OutDir, o.now())
		if err != nil {
			return res, err
		}
		res.CopyDataPath = p
	}

	logger.Info("Generation finished",
		logfields.Count(res.ProcessedCount),
		slog.Int("cached", res.CachedCount),
		slog.Int("failed", res.FailedCount),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return res, nil
}
