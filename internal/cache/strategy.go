package cache

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
)

const (
	MsgNoRoutes      = "No cached routes found. Please run the site build first."
	MsgConfigChanged = "Configuration changed - rebuilding cache"
	MsgUsingCached   = "Using cached data"
)

// Decision is the outcome of Analyze.
type Decision struct {
	UseCache      bool
	HasRoutes     bool
	ConfigMatches bool
	CountMatches  bool
	Reason        string
}

// Analyze decides whether cached entries may be reused. Build runs also
// require the cached route count to equal the live count; CLI runs have no
// live routes to compare.
func Analyze(c model.CacheSchema, configHash string, isCLI bool, liveRouteCount int) Decision {
	d := Decision{
		HasRoutes:     len(c.Routes) > 0,
		ConfigMatches: c.ConfigHash == configHash,
		CountMatches:  isCLI || len(c.Routes) == liveRouteCount,
	}
	d.UseCache = d.HasRoutes && d.ConfigMatches && d.CountMatches

	switch {
	case !d.HasRoutes:
		d.Reason = MsgNoRoutes
	case !d.ConfigMatches:
		d.Reason = MsgConfigChanged
	case !d.CountMatches:
		d.Reason = fmt.Sprintf("Route count changed (cached %d, live %d) - rebuilding cache", len(c.Routes), liveRouteCount)
	default:
		d.Reason = MsgUsingCached
	}
	return d
}

// ValidateCLI fails when there is nothing cached to regenerate from.
func ValidateCLI(c model.CacheSchema) error {
	if len(c.Routes) == 0 {
		return ferrors.ValidationError(MsgNoRoutes).Build()
	}
	return nil
}
