package discovery

import (
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
	"git.home.luguber.info/inful/llmstxt/internal/routeglob"
)

// ExclusionMatcher tests routes against the excludeRoutes globs.
type ExclusionMatcher struct {
	set routeglob.Set
}

// NewExclusionMatcher compiles the exclude patterns.
func NewExclusionMatcher(patterns []string) (*ExclusionMatcher, error) {
	set, err := routeglob.CompileSet(patterns)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid excludeRoutes pattern").
			Fatal().
			WithContext("patterns", patterns).
			Build()
	}
	return &ExclusionMatcher{set: set}, nil
}

// Excluded reports whether routePath matches any exclude pattern.
func (m *ExclusionMatcher) Excluded(routePath string) bool {
	if m == nil {
		return false
	}
	return m.set.MatchAny(paths.EnsureLeadingSlash(routePath))
}

// Attributes is the metadata ShouldProcess needs; both live routes and
// cache entries provide it.
type Attributes struct {
	Type             model.ContentType
	IsVersioned      bool
	IsGeneratedIndex bool
}

// ShouldProcess applies the content-type switches, then the versioned-docs
// and generated-index exclusions. Exclusion globs are checked separately.
func ShouldProcess(a Attributes, inc config.IncludeConfig) bool {
	switch a.Type {
	case model.ContentBlog:
		return inc.IncludeBlog
	case model.ContentPages:
		return inc.IncludePages
	}
	if !inc.IncludeDocs {
		return false
	}
	if a.IsVersioned && !inc.IncludeVersionedDocs {
		return false
	}
	if a.IsGeneratedIndex && !inc.IncludeGeneratedIndex {
		return false
	}
	return true
}

// RouteAttributes classifies a live route.
func RouteAttributes(r model.Route) Attributes {
	return Attributes{Type: Classify(r), IsVersioned: r.IsVersioned, IsGeneratedIndex: r.IsGeneratedIndex}
}

// FilterStats counts why routes were dropped.
type FilterStats struct {
	Total    int
	Kept     int
	ByType   int
	Excluded int
}

// Filter keeps routes that pass both the content-type checks and the
// exclusion globs. Exclusion wins over inclusion.
type Filter struct {
	include config.IncludeConfig
	matcher *ExclusionMatcher
	logger  *slog.Logger
}

// NewFilter builds a Filter from the include configuration.
func NewFilter(inc config.IncludeConfig) (*Filter, error) {
	m, err := NewExclusionMatcher(inc.ExcludeRoutes)
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, matcher: m, logger: slog.Default()}, nil
}

// WithLogger sets the logger used for filter statistics.
func (f *Filter) WithLogger(l *slog.Logger) *Filter {
	if l != nil {
		f.logger = l
	}
	return f
}

// Allows reports whether a route with the given attributes is processed.
func (f *Filter) Allows(routePath string, a Attributes) bool {
	return ShouldProcess(a, f.include) && !f.matcher.Excluded(routePath)
}

// Routes filters live routes.
func (f *Filter) Routes(routes []model.Route) ([]model.Route, FilterStats) {
	stats := FilterStats{Total: len(routes)}
	kept := make([]model.Route, 0, len(routes))
	for _, r := range routes {
		switch {
		case !ShouldProcess(RouteAttributes(r), f.include):
			stats.ByType++
		case f.matcher.Excluded(r.Path):
			stats.Excluded++
		default:
			kept = append(kept, r)
		}
	}
	stats.Kept = len(kept)
	f.logger.Debug("Filtered routes",
		slog.Int("total", stats.Total),
		slog.Int("kept", stats.Kept),
		slog.Int("filtered_by_type", stats.ByType),
		slog.Int("excluded", stats.Excluded))
	return kept, stats
}
