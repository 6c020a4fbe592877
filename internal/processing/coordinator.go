package processing

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/discovery"
	"git.home.luguber.info/inful/llmstxt/internal/generate"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/metrics"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
)

// Stage names used for timing.
const (
	StageProcess  = "process"
	StageGenerate = "generate"
)

// Dirs locates the site sources and the build output.
type Dirs struct {
	SiteDir string
	OutDir  string
}

// Request is one coordinated run. CLI runs ignore Routes and work from the
// cached route list instead.
type Request struct {
	CLI           bool
	Routes        []model.Route
	Cache         model.CacheSchema
	UseCache      bool
	ConfigHash    string
	PluginVersion string
}

// Outcome summarizes a coordinated run.
type Outcome struct {
	Docs    []model.DocInfo
	Entries []model.CachedRouteInfo
	Outputs generate.Outputs
	Stats   Stats
}

// Coordinator wires filtering, processing, cache persistence and output
// generation for one configuration.
type Coordinator struct {
	cfg      *config.Config
	engine   *routerules.Engine
	store    *cache.Store
	registry *transform.Registry
	dirs     Dirs
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewCoordinator creates a coordinator. A nil registry means the built-in
// stages only.
func NewCoordinator(cfg *config.Config, engine *routerules.Engine, store *cache.Store, registry *transform.Registry, dirs Dirs) *Coordinator {
	if registry == nil {
		registry = transform.NewRegistry()
	}
	return &Coordinator{
		cfg:      cfg,
		engine:   engine,
		store:    store,
		registry: registry,
		dirs:     dirs,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithLogger sets the logger.
func (c *Coordinator) WithLogger(l *slog.Logger) *Coordinator {
	if l != nil {
		c.logger = l
	}
	return c
}

// WithRecorder sets the metrics recorder.
func (c *Coordinator) WithRecorder(r metrics.Recorder) *Coordinator {
	if r != nil {
		c.recorder = r
	}
	return c
}

// Run processes the request's routes, saves the cache once and writes the
// outputs.
func (c *Coordinator) Run(ctx context.Context, req Request) (Outcome, error) {
	entries := c.entries(req)

	filter, err := discovery.NewFilter(c.cfg.Include)
	if err != nil {
		return Outcome{}, err
	}
	selected := cache.FilterEntries(entries, filter.WithLogger(c.logger), c.logger)

	exclude, err := discovery.NewExclusionMatcher(c.cfg.Include.ExcludeRoutes)
	if err != nil {
		return Outcome{}, err
	}
	conv, err := transform.NewConverter(transform.Options{
		Links: transform.LinkOptions{
			EnableMarkdownFiles: c.cfg.Generate.EnableMarkdownFiles,
			RelativePaths:       c.cfg.Generate.RelativePaths,
			SiteURL:             generate.SiteURL(c.cfg.Site),
			Lookup:              lookup(selected),
			Exclude:             exclude,
		},
		GFM:           c.cfg.Processing.GFM,
		ProcessTables: c.cfg.Processing.ProcessTables,
		Stages:        c.cfg.Processing.Stages,
	}, c.registry)
	if err != nil {
		return Outcome{}, err
	}
	pages := transform.NewFileProcessor(conv.WithLogger(c.logger), c.dirs.OutDir, c.cfg.Generate).WithLogger(c.logger)

	timer := metrics.StartStage(c.recorder, StageProcess)
	res, err := NewRouteProcessor(c.cfg, c.engine, pages, c.dirs.OutDir).
		WithLogger(c.logger).
		WithRecorder(c.recorder).
		Process(ctx, selected, req.UseCache)
	if err != nil {
		return Outcome{}, err
	}
	c.logger.Debug("Processing finished", logfields.DurationMS(float64(timer.Stop().Milliseconds())))

	merged := cache.Merge(entries, res.Entries)
	if err := c.store.Save(model.CacheSchema{
		PluginVersion: req.PluginVersion,
		ConfigHash:    req.ConfigHash,
		Routes:        merged,
	}); err != nil {
		return Outcome{}, err
	}
	c.logger.Debug("Cache updated", logfields.Count(len(merged)))

	timer = metrics.StartStage(c.recorder, StageGenerate)
	outputs, err := generate.GenerateOutputs(res.Docs, c.cfg, c.engine, c.dirs.SiteDir, c.dirs.OutDir, c.logger)
	if err != nil {
		return Outcome{}, err
	}
	timer.Stop()

	return Outcome{Docs: res.Docs, Entries: merged, Outputs: outputs, Stats: res.Stats}, nil
}

// entries returns the cache entries for this run. Live routes get fresh
// entries that keep the cached conversion data of unchanged pages.
func (c *Coordinator) entries(req Request) []model.CachedRouteInfo {
	if req.CLI {
		return append([]model.CachedRouteInfo(nil), req.Cache.Routes...)
	}
	fresh := cache.NewEntries(req.Routes, c.cfg.Site)
	if !req.UseCache {
		return fresh
	}
	prior := cache.Index(req.Cache.Routes)
	for i, e := range fresh {
		old, ok := prior[e.Path]
		if !ok || old.HTMLPath != e.HTMLPath {
			continue
		}
		e.Hash, e.Title, e.Description, e.MarkdownFile = old.Hash, old.Title, old.Description, old.MarkdownFile
		fresh[i] = e
	}
	return fresh
}

func lookup(entries []model.CachedRouteInfo) transform.RouteLookup {
	l := make(transform.RouteLookup, len(entries))
	for _, e := range entries {
		if e.HTMLPath == "" {
			continue
		}
		l[e.Path] = transform.LookupEntry{
			HTMLPath:     e.HTMLPath,
			MarkdownFile: paths.HTMLToMarkdownPath(e.HTMLPath),
		}
	}
	return l
}
