// Package routerules resolves the effective per-route configuration from
// section routes and global route rules.
package routerules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
	"git.home.luguber.info/inful/llmstxt/internal/routeglob"
)

// DefaultDepth is the hierarchy depth when no rule sets one.
const DefaultDepth = 1

// EffectiveConfig is the configuration that applies to one path.
type EffectiveConfig struct {
	Path             string
	SectionID        string
	ContentSelectors []string
	CategoryName     string
	// CategoryFromRule is true when CategoryName came from a rule rather
	// than the fallback segment.
	CategoryFromRule bool
	Depth            int
	IncludeOrder     []string
	MatchedRule      *config.RouteRule
	FromSection      bool
}

// FindMostSpecificMatch returns the matching rule with the longest literal
// prefix, or nil. Ties go to the rule declared first.
func FindMostSpecificMatch(routePath string, rules []config.RouteRule) *config.RouteRule {
	if i := mostSpecificIndex(routePath, rules); i >= 0 {
		return &rules[i]
	}
	return nil
}

// mostSpecificIndex is FindMostSpecificMatch by index. Invalid patterns never match.
func mostSpecificIndex(routePath string, rules []config.RouteRule) int {
	norm := paths.EnsureLeadingSlash(routePath)
	best, bestLen := -1, -1
	for i, r := range rules {
		p, err := routeglob.Get(r.Route)
		if err != nil || !p.Match(norm) {
			continue
		}
		// Strict comparison keeps the earliest rule on ties.
		if l := len(ruleBase(r)); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// ApplyRule derives the effective configuration of routePath from rule.
// The rule's category name only applies when routePath is exactly the
// rule's base path; depth, selectors and ordering apply to every match.
func ApplyRule(rule *config.RouteRule, routePath, fallbackSegment string, defaultSelectors []string) EffectiveConfig {
	ec := EffectiveConfig{
		Path:             routePath,
		ContentSelectors: defaultSelectors,
		CategoryName:     fallbackSegment,
		Depth:            DefaultDepth,
		MatchedRule:      rule,
	}
	if rule == nil {
		return ec
	}
	if len(rule.ContentSelectors) > 0 {
		ec.ContentSelectors = rule.ContentSelectors
	}
	if rule.Depth > 0 {
		ec.Depth = rule.Depth
	}
	ec.IncludeOrder = rule.IncludeOrder
	if rule.CategoryName != "" && paths.StripTrailingSlash(paths.EnsureLeadingSlash(routePath)) == ruleBase(*rule) {
		ec.CategoryName = rule.CategoryName
		ec.CategoryFromRule = true
	}
	return ec
}

func ruleBase(r config.RouteRule) string {
	return routeglob.Base(paths.EnsureLeadingSlash(r.Route))
}

type sectionRule struct {
	sectionID string
	rule      config.RouteRule
}

// Engine resolves paths against the configured sections and rules.
type Engine struct {
	sectionRules     []sectionRule
	sectionRoutes    []config.RouteRule
	globalRules      []config.RouteRule
	defaultSelectors []string
	sections         map[string]config.FlatSection
}

// New compiles the rules of cfg. Invalid patterns are configuration errors.
func New(cfg *config.Config) (*Engine, error) {
	e := &Engine{
		globalRules:      cfg.Processing.RouteRules,
		defaultSelectors: cfg.Processing.ContentSelectors,
		sections:         make(map[string]config.FlatSection),
	}
	for _, f := range config.FlattenSections(cfg.Structure.Sections) {
		e.sections[f.Def.ID] = f
		for _, r := range f.Def.Routes {
			e.sectionRules = append(e.sectionRules, sectionRule{sectionID: f.Def.ID, rule: r})
			e.sectionRoutes = append(e.sectionRoutes, r)
		}
	}
	for _, r := range append(append([]config.RouteRule(nil), e.sectionRoutes...), e.globalRules...) {
		if _, err := routeglob.Get(r.Route); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid route pattern").
				Fatal().
				WithContext(ferrors.CtxRoutePattern, r.Route).
				Build()
		}
	}
	return e, nil
}

// Resolve returns the effective configuration for routePath. Section routes
// win over global rules; with neither, the path is assigned to a section
// named after its first segment.
func (e *Engine) Resolve(routePath string) EffectiveConfig {
	norm := paths.StripTrailingSlash(paths.EnsureLeadingSlash(routePath))
	segs := model.Segments(norm)
	fallback := ""
	if len(segs) > 0 {
		fallback = AutoSectionName(segs[len(segs)-1])
	}

	if i := mostSpecificIndex(norm, e.sectionRoutes); i >= 0 {
		sr := e.sectionRules[i]
		ec := ApplyRule(&sr.rule, norm, fallback, e.defaultSelectors)
		ec.SectionID = sr.sectionID
		ec.FromSection = true
		return ec
	}

	ec := ApplyRule(FindMostSpecificMatch(norm, e.globalRules), norm, fallback, e.defaultSelectors)
	ec.SectionID = AutoSectionID(norm)
	return ec
}

// Section returns the definition of a configured section.
func (e *Engine) Section(id string) (config.FlatSection, bool) {
	s, ok := e.sections[id]
	return s, ok
}

// IncludeOrder returns the includeOrder of the first rule whose base path
// equals nodePath.
func (e *Engine) IncludeOrder(nodePath string) []string {
	for _, r := range append(append([]config.RouteRule(nil), e.sectionRoutes...), e.globalRules...) {
		if len(r.IncludeOrder) > 0 && ruleBase(r) == nodePath {
			return r.IncludeOrder
		}
	}
	return nil
}

// SectionIncludeOrder returns the first includeOrder declared on a section's routes.
func (e *Engine) SectionIncludeOrder(sectionID string) []string {
	for _, sr := range e.sectionRules {
		if sr.sectionID == sectionID && len(sr.rule.IncludeOrder) > 0 {
			return sr.rule.IncludeOrder
		}
	}
	return nil
}

// AutoSectionID derives the section id of an unmatched path from its first segment.
func AutoSectionID(routePath string) string {
	segs := model.Segments(routePath)
	if len(segs) == 0 {
		return paths.SectionIDFrom("root")
	}
	return paths.SectionIDFrom(segs[0])
}

// AutoSectionName turns a section id or slug into a display name:
// "getting-started" -> "Getting Started". Safe for concurrent use.
func AutoSectionName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	// A cases.Caser is stateful, so each call needs its own.
	caser := cases.Title(language.English)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
