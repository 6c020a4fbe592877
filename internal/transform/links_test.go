package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/discovery"
)

func testLookup() RouteLookup {
	return RouteLookup{
		"/":            {HTMLPath: "index.html", MarkdownFile: "index.md"},
		"/docs/intro":  {HTMLPath: "docs/intro/index.html", MarkdownFile: "docs/intro.md"},
		"/docs/guide/": {HTMLPath: "docs/guide/index.html", MarkdownFile: "docs/guide.md"},
		"/docs/api":    {},
	}
}

func TestRouteLookup_Resolve(t *testing.T) {
	l := RouteLookup{"/a/": {}, "/b": {}, "/c/index": {}}
	assert.Equal(t, "/a/", l.Resolve("/a"))
	assert.Equal(t, "/b", l.Resolve("/b/"))
	assert.Equal(t, "/c/index", l.Resolve("/c"))
	assert.Equal(t, "/zzz", l.Resolve("/zzz"))
	assert.Equal(t, "/x", RouteLookup(nil).Resolve("/x"))
}

func TestIsInternalLink(t *testing.T) {
	for href, want := range map[string]bool{
		"/docs/intro":         true,
		"./setup":             true,
		"../up":               true,
		"":                    false,
		"#anchor":             false,
		"https://example.com": false,
		"//cdn.example.com/x": false,
		"mailto:me@x.org":     false,
	} {
		assert.Equal(t, want, IsInternalLink(href), href)
	}
}

func TestRewriteLink_RelativeMarkdown(t *testing.T) {
	o := LinkOptions{EnableMarkdownFiles: true, RelativePaths: true, Lookup: testLookup()}

	assert.Equal(t, "/docs/intro.md", RewriteLink("/docs/intro/", o))
	assert.Equal(t, "/docs/intro.md#install", RewriteLink("./docs/intro.html#install", o))
	assert.Equal(t, "/docs/guide.md?tab=go", RewriteLink("/docs/guide?tab=go", o))
	assert.Equal(t, "/index.md", RewriteLink("/", o))
	assert.Equal(t, "https://other.org/x", RewriteLink("https://other.org/x", o))
}

func TestRewriteLink_ExcludedRoutes(t *testing.T) {
	m, err := discovery.NewExclusionMatcher([]string{"/docs/intro"})
	require.NoError(t, err)

	relative := LinkOptions{EnableMarkdownFiles: true, RelativePaths: true, Lookup: testLookup(), Exclude: m}
	assert.Equal(t, "/docs/intro/", RewriteLink("/docs/intro/", relative))
	assert.Equal(t, "/docs/api", RewriteLink("/docs/api", relative), "no HTML path means no Markdown file")
	assert.Equal(t, "/unknown", RewriteLink("/unknown", relative))

	absolute := relative
	absolute.RelativePaths = false
	absolute.SiteURL = "https://example.com/base/"
	assert.Equal(t, "https://example.com/base/docs/intro", RewriteLink("/docs/intro/", absolute))
	assert.Equal(t, "https://example.com/base/docs/guide.md", RewriteLink("/docs/guide", absolute))
}

func TestLinkOptions_Skip(t *testing.T) {
	assert.True(t, LinkOptions{RelativePaths: true}.Skip())
	assert.False(t, LinkOptions{RelativePaths: true, EnableMarkdownFiles: true}.Skip())
	assert.False(t, LinkOptions{}.Skip())
}
