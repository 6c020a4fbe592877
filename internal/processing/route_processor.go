// Package processing turns the route list of one run into documents,
// reusing valid cache entries and converting the rest concurrently.
package processing

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/metrics"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
)

// PageProcessor converts one page. *transform.FileProcessor implements it.
type PageProcessor interface {
	Process(ctx context.Context, routePath, htmlPath string, selectors []string) (transform.Processed, error)
}

// Stats counts route results for one run.
type Stats struct {
	Processed int
	Cached    int
	Failed    int
	Skipped   int
}

// Result is the output of RouteProcessor.Process. Entries is aligned with
// the input entries; Docs keeps input order.
type Result struct {
	Docs    []model.DocInfo
	Entries []model.CachedRouteInfo
	Stats   Stats
}

// RouteProcessor runs pages through a PageProcessor with bounded
// concurrency.
type RouteProcessor struct {
	cfg      *config.Config
	engine   *routerules.Engine
	pages    PageProcessor
	outDir   string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewRouteProcessor returns a processor for pages below outDir.
func NewRouteProcessor(cfg *config.Config, engine *routerules.Engine, pages PageProcessor, outDir string) *RouteProcessor {
	return &RouteProcessor{
		cfg:      cfg,
		engine:   engine,
		pages:    pages,
		outDir:   outDir,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithLogger sets the logger.
func (p *RouteProcessor) WithLogger(l *slog.Logger) *RouteProcessor {
	if l != nil {
		p.logger = l
	}
	return p
}

// WithRecorder sets the metrics recorder.
func (p *RouteProcessor) WithRecorder(r metrics.Recorder) *RouteProcessor {
	if r != nil {
		p.recorder = r
	}
	return p
}

// cacheUsable reports whether cached entries can stand in for conversion.
// Content kept only in memory is not cached, so llms-full.txt without
// Markdown files always needs a fresh conversion.
func (p *RouteProcessor) cacheUsable() bool {
	g := p.cfg.Generate
	return g.EnableMarkdownFiles || !g.EnableLlmsFullTxt
}

// Process handles every entry. A failing route is reported through the
// onRouteError policy and left out; only the throw policy stops the run,
// returning the first such error.
func (p *RouteProcessor) Process(ctx context.Context, entries []model.CachedRouteInfo, useCache bool) (Result, error) {
	n := len(entries)
	docs := make([]*model.DocInfo, n)
	updated := make([]model.CachedRouteInfo, n)
	results := make([]metrics.RouteResult, n)
	copy(updated, entries)

	useCache = useCache && p.cacheUsable()
	opts := cache.ValidationOptions{OutDir: p.outDir, EnableMarkdownFiles: p.cfg.Generate.EnableMarkdownFiles}

	limit := p.cfg.Concurrency
	if limit <= 0 {
		limit = config.DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range entries {
		entry := entries[i]
		g.Go(func() error {
			if entry.HTMLPath == "" {
				p.logger.Debug("No HTML path for route", logfields.Route(entry.Path))
				results[i] = metrics.RouteSkipped
				return nil
			}

			if useCache && cache.IsEntryValid(entry, opts) {
				if doc, ok := cache.ToDocInfo(entry); ok {
					p.logger.Debug("Using cached data for route", logfields.Route(entry.Path))
					docs[i] = &doc
					results[i] = metrics.RouteCached
					return nil
				}
			}

			ec := p.engine.Resolve(entry.Path)
			processed, err := p.pages.Process(gctx, entry.Path, entry.HTMLPath, ec.ContentSelectors)
			if err != nil {
				results[i] = metrics.RouteFailed
				return ReportRouteError(entry.Path, err, p.cfg.OnRouteError, p.logger)
			}

			doc := processed.Doc
			docs[i] = &doc
			updated[i] = cache.UpdateWithDoc(entry, doc, processed.Hash, p.cfg.Generate.EnableMarkdownFiles)
			results[i] = metrics.RouteProcessed
			p.logger.Debug("Processed route", logfields.Route(entry.Path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Entries: updated}
	for i, r := range results {
		p.recorder.IncRouteResult(r)
		switch r {
		case metrics.RouteProcessed:
			res.Stats.Processed++
		case metrics.RouteCached:
			res.Stats.Cached++
		case metrics.RouteFailed:
			res.Stats.Failed++
		case metrics.RouteSkipped:
			res.Stats.Skipped++
		}
		if docs[i] != nil {
			res.Docs = append(res.Docs, *docs[i])
		}
	}
	p.logger.Debug("Processed documents",
		logfields.Count(len(res.Docs)),
		slog.Int("cached", res.Stats.Cached),
		slog.Int("failed", res.Stats.Failed))
	return res, nil
}

// ReportRouteError routes a per-route failure through the onRouteError
// policy. Only the throw policy returns an error.
func ReportRouteError(routePath string, err error, policy config.Severity, logger *slog.Logger) error {
	msg := fmt.Sprintf("Route Error: Failed to process route %s: %v", routePath, err)
	switch policy {
	case config.SeverityIgnore:
		return nil
	case config.SeverityLog:
		logger.Debug(msg, logfields.Route(routePath))
		return nil
	case config.SeverityThrow:
		if ferrors.IsClassified(err) {
			return err
		}
		return ferrors.WrapError(err, ferrors.CategoryProcessing, "Failed to process route").
			WithContext(ferrors.CtxRoute, routePath).
			Build()
	default:
		logger.Warn(msg, logfields.Route(routePath), logfields.Error(err))
		return nil
	}
}
