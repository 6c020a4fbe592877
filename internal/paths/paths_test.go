package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteToHTMLPath(t *testing.T) {
	tests := []struct {
		route, base string
		trailing    bool
		want        string
	}{
		{"/", "/", true, "index.html"},
		{"/", "/", false, "index.html"},
		{"/docs/intro", "/", true, "docs/intro/index.html"},
		{"/docs/intro", "/", false, "docs/intro.html"},
		{"/docs/", "/", false, "docs/index.html"},
		{"/docs/", "/", true, "docs/index.html"},
		{"/site/docs/intro", "/site/", true, "docs/intro/index.html"},
		{"/site", "/site/", true, "index.html"},
		{"/sitemap", "/site/", false, "sitemap.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RouteToHTMLPath(tt.route, tt.base, tt.trailing), "%s base=%s trailing=%v", tt.route, tt.base, tt.trailing)
	}
}

func TestHTMLToMarkdownPath(t *testing.T) {
	assert.Equal(t, "index.md", HTMLToMarkdownPath("index.html"))
	assert.Equal(t, "docs.md", HTMLToMarkdownPath("docs/index.html"))
	assert.Equal(t, "docs/intro.md", HTMLToMarkdownPath("docs/intro.html"))
	assert.Equal(t, "docs/intro.md", HTMLToMarkdownPath("docs/intro/index.html"))
	assert.Equal(t, "a/b.md", HTMLToMarkdownPath(`a\b.html`))
}

// The directory-index collapse is the known collision case.
func TestHTMLToMarkdownPath_IndexCollision(t *testing.T) {
	assert.Equal(t, HTMLToMarkdownPath("foo/index.html"), HTMLToMarkdownPath("foo.html"))
}

func TestRoundTrip_MarkdownStemMatchesRoute(t *testing.T) {
	routes := map[string]string{
		"/":                  "index.md",
		"/docs/intro":        "docs/intro.md",
		"/docs/guide/setup":  "docs/guide/setup.md",
		"/blog/2024/release": "blog/2024/release.md",
	}
	for route, want := range routes {
		for _, trailing := range []bool{true, false} {
			got := HTMLToMarkdownPath(RouteToHTMLPath("/base"+route, "/base/", trailing))
			if route == "/" {
				got = HTMLToMarkdownPath(RouteToHTMLPath("/base/", "/base/", trailing))
			}
			assert.Equal(t, want, got, "route=%s trailing=%v", route, trailing)
		}
	}
}

func TestFormatURL(t *testing.T) {
	rel := URLOptions{EnableMarkdownFiles: true, RelativePaths: true}
	assert.Equal(t, "/docs/intro.md", FormatURL("/docs/intro", rel, ""))
	assert.Equal(t, "/index.md", FormatURL("/", rel, ""))
	assert.Equal(t, "/docs.md", FormatURL("/docs/", rel, ""))

	withFile := rel
	withFile.MarkdownFile = "docs/intro.md"
	assert.Equal(t, "/docs/intro.md", FormatURL("/ignored", withFile, ""))

	abs := URLOptions{EnableMarkdownFiles: true}
	assert.Equal(t, "https://example.com/base/docs/intro.md", FormatURL("/docs/intro", abs, "https://example.com/base/"))

	plain := URLOptions{RelativePaths: true}
	assert.Equal(t, "/docs/intro", FormatURL("/docs/intro", plain, ""))
}

func TestJoinURLAndSiteURL(t *testing.T) {
	assert.Equal(t, "https://example.com/docs/", SiteURL("https://example.com", "/docs/"))
	assert.Equal(t, "https://example.com/a/b", JoinURL("https://example.com/", "/a/", "/b"))
	assert.Equal(t, "/", SiteURL("", "/"))
}

func TestSlugifyAndSectionID(t *testing.T) {
	assert.Equal(t, "getting-started", Slugify("Getting Started!"))
	assert.Equal(t, "api-v2", SectionIDFrom("API_v2"))
	assert.Equal(t, "root", SectionIDFrom(""))
}
