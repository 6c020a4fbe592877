package cache

import (
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/discovery"
	"git.home.luguber.info/inful/llmstxt/internal/model"
)

// FilterEntries applies the include switches and exclusion globs to cached
// entries, in the same order as live route filtering.
func FilterEntries(entries []model.CachedRouteInfo, f *discovery.Filter, logger *slog.Logger) []model.CachedRouteInfo {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]model.CachedRouteInfo, 0, len(entries))
	for _, e := range entries {
		typ := e.ContentType
		if typ == "" {
			typ = model.ContentUnknown
		}
		a := discovery.Attributes{Type: typ, IsVersioned: e.IsVersioned, IsGeneratedIndex: e.IsGeneratedIndex}
		if f.Allows(e.Path, a) {
			kept = append(kept, e)
		}
	}
	if excluded := len(entries) - len(kept); excluded > 0 {
		logger.Debug("Cache filtering excluded routes",
			slog.Int("included", len(kept)),
			slog.Int("total", len(entries)),
			slog.Int("excluded", excluded))
	} else {
		logger.Debug("Cache filtering included all routes", slog.Int("total", len(entries)))
	}
	return kept
}
