// Package discovery classifies host routes and decides which ones the
// pipeline processes.
package discovery

import "git.home.luguber.info/inful/llmstxt/internal/model"

// Known host plugin identifiers.
const (
	BlogPlugin  = "docusaurus-plugin-content-blog"
	PagesPlugin = "docusaurus-plugin-content-pages"
	DocsPlugin  = "docusaurus-plugin-content-docs"
)

var docComponents = map[string]bool{
	"@theme/DocItem":                       true,
	"@theme/DocPage":                       true,
	"@theme/DocRoot":                       true,
	"@theme/DocVersionRoot":                true,
	"@theme/DocCategoryGeneratedIndexPage": true,
}

var blogComponents = map[string]bool{
	"@theme/BlogPostPage":         true,
	"@theme/BlogListPage":         true,
	"@theme/BlogTagsPostsPage":    true,
	"@theme/BlogTagsListPage":     true,
	"@theme/BlogArchivePage":      true,
	"@theme/BlogAuthorsPostsPage": true,
}

// Classify returns the content type of a route. Only explicit metadata is
// used: the plugin name, then the rendering component, then the root path.
// Paths and file names are never inspected, so unmatched routes stay Unknown.
func Classify(r model.Route) model.ContentType {
	if r.ContentType != "" {
		return r.ContentType
	}
	switch name := r.PluginName(); {
	case name == BlogPlugin:
		return model.ContentBlog
	case name == PagesPlugin:
		return model.ContentPages
	case name != "":
		return model.ContentDocs
	}
	switch {
	case docComponents[r.Component]:
		return model.ContentDocs
	case blogComponents[r.Component]:
		return model.ContentBlog
	case r.Path == "/":
		return model.ContentPages
	}
	return model.ContentUnknown
}
