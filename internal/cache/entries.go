package cache

import (
	"git.home.luguber.info/inful/llmstxt/internal/discovery"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
)

// NewEntries seeds cache entries for live routes. Hash and content fields
// stay empty until a route is processed.
func NewEntries(routes []model.Route, site model.SiteInfo) []model.CachedRouteInfo {
	trailing := site.TrailingSlash == nil || *site.TrailingSlash
	out := make([]model.CachedRouteInfo, len(routes))
	for i, r := range routes {
		out[i] = model.CachedRouteInfo{
			Path:             r.Path,
			HTMLPath:         paths.RouteToHTMLPath(r.Path, site.BaseURL, trailing),
			Plugin:           r.PluginName(),
			ContentType:      discovery.Classify(r),
			IsVersioned:      r.IsVersioned,
			IsGeneratedIndex: r.IsGeneratedIndex,
		}
	}
	return out
}

// UpdateWithDoc records a successful conversion on entry.
func UpdateWithDoc(entry model.CachedRouteInfo, doc model.DocInfo, hash string, enableMarkdownFiles bool) model.CachedRouteInfo {
	entry.Hash = hash
	entry.Title = doc.Title
	entry.Description = doc.Description
	if doc.HTMLPath != "" {
		entry.HTMLPath = doc.HTMLPath
	}
	entry.MarkdownFile = ""
	if enableMarkdownFiles && doc.MarkdownFile != "" {
		entry.MarkdownFile = doc.MarkdownFile
	}
	return entry
}

// ToDocInfo rebuilds a document from a cache entry. It reports false when
// the entry was never processed.
func ToDocInfo(entry model.CachedRouteInfo) (model.DocInfo, bool) {
	if entry.HTMLPath == "" || entry.Hash == "" || entry.Title == "" {
		return model.DocInfo{}, false
	}
	return model.DocInfo{
		RoutePath:    entry.Path,
		Title:        entry.Title,
		Description:  entry.Description,
		HTMLPath:     entry.HTMLPath,
		MarkdownFile: entry.MarkdownFile,
	}, true
}

// ToRoutes turns cache entries back into routes, keeping the recorded
// classification so a CLI run filters exactly like the build did.
func ToRoutes(entries []model.CachedRouteInfo) []model.Route {
	out := make([]model.Route, len(entries))
	for i, e := range entries {
		r := model.Route{
			Path:             e.Path,
			ContentType:      e.ContentType,
			IsVersioned:      e.IsVersioned,
			IsGeneratedIndex: e.IsGeneratedIndex,
		}
		if e.Plugin != "" {
			r.Plugin = &model.PluginRef{Name: e.Plugin}
		}
		out[i] = r
	}
	return out
}

// Index maps entries by route path.
func Index(entries []model.CachedRouteInfo) map[string]model.CachedRouteInfo {
	m := make(map[string]model.CachedRouteInfo, len(entries))
	for _, e := range entries {
		m[e.Path] = e
	}
	return m
}

// Merge overlays updated entries onto base by path. Entries only in base
// are kept and new paths are appended in order.
func Merge(base, updated []model.CachedRouteInfo) []model.CachedRouteInfo {
	pos := make(map[string]int, len(base))
	out := make([]model.CachedRouteInfo, len(base), len(base)+len(updated))
	copy(out, base)
	for i, e := range out {
		pos[e.Path] = i
	}
	for _, e := range updated {
		if i, ok := pos[e.Path]; ok {
			out[i] = e
			continue
		}
		pos[e.Path] = len(out)
		out = append(out, e)
	}
	return out
}
