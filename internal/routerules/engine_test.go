package routerules

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

func TestFindMostSpecificMatch_LongestBaseWins(t *testing.T) {
	rules := []config.RouteRule{
		{Route: "/docs/**"},
		{Route: "/docs/api/**"},
	}
	got := FindMostSpecificMatch("/docs/api/client", rules)
	require.NotNil(t, got)
	assert.Equal(t, "/docs/api/**", got.Route)

	got = FindMostSpecificMatch("/docs/intro", rules)
	require.NotNil(t, got)
	assert.Equal(t, "/docs/**", got.Route)

	assert.Nil(t, FindMostSpecificMatch("/blog/post", rules))
}

func TestFindMostSpecificMatch_TieKeepsFirstDeclared(t *testing.T) {
	rules := []config.RouteRule{
		{Route: "/docs/**", CategoryName: "first"},
		{Route: "docs/**", CategoryName: "second"},
	}
	got := FindMostSpecificMatch("/docs/intro", rules)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.CategoryName)
}

func TestFindMostSpecificMatch_BaseMatchesItself(t *testing.T) {
	rules := []config.RouteRule{{Route: "/docs/**"}}
	assert.NotNil(t, FindMostSpecificMatch("/docs", rules))
	assert.NotNil(t, FindMostSpecificMatch("docs/", rules))
}

func TestApplyRule_CategoryNameOnlyOnBasePath(t *testing.T) {
	rule := &config.RouteRule{
		Route:            "/docs/guide/**",
		CategoryName:     "User Guide",
		Depth:            3,
		ContentSelectors: []string{".guide"},
	}
	defaults := []string{"article"}

	base := ApplyRule(rule, "/docs/guide", "Guide", defaults)
	assert.Equal(t, "User Guide", base.CategoryName)
	assert.True(t, base.CategoryFromRule)
	assert.Equal(t, 3, base.Depth)

	child := ApplyRule(rule, "/docs/guide/setup", "Setup", defaults)
	assert.Equal(t, "Setup", child.CategoryName)
	assert.False(t, child.CategoryFromRule)
	assert.Equal(t, 3, child.Depth)
	assert.Equal(t, []string{".guide"}, child.ContentSelectors)
}

func TestApplyRule_NilRuleUsesDefaults(t *testing.T) {
	ec := ApplyRule(nil, "/a/b", "B", []string{"main"})
	assert.Equal(t, DefaultDepth, ec.Depth)
	assert.Equal(t, []string{"main"}, ec.ContentSelectors)
	assert.Equal(t, "B", ec.CategoryName)
	assert.Nil(t, ec.MatchedRule)
}

func newEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(&cfg)
	require.NoError(t, err)
	return e
}

func TestEngine_Resolve_SectionRouteBeatsGlobalRule(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Structure.Sections = []config.SectionDefinition{{
			ID:   "reference",
			Name: "Reference",
			Subsections: []config.SectionDefinition{{
				ID:     "api",
				Name:   "API",
				Routes: []config.RouteRule{{Route: "/docs/api/**", Depth: 2}},
			}},
		}}
		c.Processing.RouteRules = []config.RouteRule{
			{Route: "/docs/api/**", ContentSelectors: []string{".global"}},
		}
	})

	ec := e.Resolve("/docs/api/client")
	assert.Equal(t, "api", ec.SectionID)
	assert.True(t, ec.FromSection)
	assert.Equal(t, 2, ec.Depth)
	assert.Equal(t, config.DefaultContentSelectors, ec.ContentSelectors)
}

func TestEngine_Resolve_GlobalRuleKeepsAutoSection(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Processing.RouteRules = []config.RouteRule{
			{Route: "/docs/**", Depth: 2, ContentSelectors: []string{".markdown"}},
		}
	})

	ec := e.Resolve("/docs/guide/setup")
	assert.Equal(t, "docs", ec.SectionID)
	assert.False(t, ec.FromSection)
	assert.Equal(t, 2, ec.Depth)
	assert.Equal(t, []string{".markdown"}, ec.ContentSelectors)
}

func TestEngine_Resolve_AutoAssignment(t *testing.T) {
	e := newEngine(t, nil)

	assert.Equal(t, "getting-started", e.Resolve("/Getting_Started/intro").SectionID)
	assert.Equal(t, "root", e.Resolve("/").SectionID)
	assert.Equal(t, DefaultDepth, e.Resolve("/blog/post").Depth)
}

func TestEngine_New_InvalidPatternIsConfigError(t *testing.T) {
	cfg := config.Default()
	cfg.Processing.RouteRules = []config.RouteRule{{Route: "/docs/[unclosed"}}

	_, err := New(&cfg)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestEngine_IncludeOrder(t *testing.T) {
	e := newEngine(t, func(c *config.Config) {
		c.Structure.Sections = []config.SectionDefinition{{
			ID:     "docs",
			Name:   "Docs",
			Routes: []config.RouteRule{{Route: "/docs/**", IncludeOrder: []string{"/docs/intro"}}},
		}}
		c.Processing.RouteRules = []config.RouteRule{
			{Route: "/docs/guide/**", IncludeOrder: []string{"/docs/guide/setup", "/docs/guide/*"}},
		}
	})

	assert.Equal(t, []string{"/docs/guide/setup", "/docs/guide/*"}, e.IncludeOrder("/docs/guide"))
	assert.Equal(t, []string{"/docs/intro"}, e.SectionIncludeOrder("docs"))
	assert.Nil(t, e.IncludeOrder("/blog"))
}

func TestAutoSectionName(t *testing.T) {
	assert.Equal(t, "Getting Started", AutoSectionName("getting-started"))
	assert.Equal(t, "Api", AutoSectionName("api"))
	assert.Equal(t, "", AutoSectionName(""))
}

func TestEngine_Resolve_ConcurrentAutoNames(t *testing.T) {
	cfg := config.Default()
	e, err := New(&cfg)
	require.NoError(t, err)

	const n = 64
	got := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = e.Resolve(fmt.Sprintf("/topic-%02d/getting-started-%02d", i, i)).CategoryName
		}()
	}
	wg.Wait()

	for i, name := range got {
		assert.Equal(t, fmt.Sprintf("Getting Started %02d", i), name)
	}
}
