// Package model holds the data types shared across the pipeline.
package model

import "strings"

// ContentType classifies a route by the kind of content it renders.
type ContentType string

const (
	ContentDocs    ContentType = "docs"
	ContentBlog    ContentType = "blog"
	ContentPages   ContentType = "pages"
	ContentUnknown ContentType = "unknown"
)

// PluginRef identifies the host plugin that produced a route.
type PluginRef struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Route is a logical page path supplied by the host build.
type Route struct {
	Path      string     `json:"path"`
	Plugin    *PluginRef `json:"plugin,omitempty"`
	Component string     `json:"component,omitempty"`
	// ContentType, when set, is an explicit classification recorded by an
	// earlier run and takes precedence over heuristics.
	ContentType      ContentType `json:"contentType,omitempty"`
	IsVersioned      bool        `json:"isVersioned,omitempty"`
	IsGeneratedIndex bool        `json:"isGeneratedIndex,omitempty"`
}

// PluginName returns the plugin name or "".
func (r Route) PluginName() string {
	if r.Plugin == nil {
		return ""
	}
	return r.Plugin.Name
}

// SiteInfo carries the host site metadata needed for paths and links.
type SiteInfo struct {
	Title         string `json:"title,omitempty" yaml:"title"`
	URL           string `json:"url,omitempty" yaml:"url"`
	BaseURL       string `json:"baseUrl,omitempty" yaml:"baseUrl"`
	TrailingSlash *bool  `json:"trailingSlash,omitempty" yaml:"trailingSlash"`
}

// CachedRouteInfo is the persisted per-route cache entry.
type CachedRouteInfo struct {
	Path             string      `json:"path"`
	HTMLPath         string      `json:"htmlPath,omitempty"`
	Hash             string      `json:"hash,omitempty"`
	Title            string      `json:"title,omitempty"`
	Description      string      `json:"description,omitempty"`
	MarkdownFile     string      `json:"markdownFile,omitempty"`
	Plugin           string      `json:"plugin,omitempty"`
	ContentType      ContentType `json:"contentType,omitempty"`
	IsVersioned      bool        `json:"isVersioned,omitempty"`
	IsGeneratedIndex bool        `json:"isGeneratedIndex,omitempty"`
}

// CacheSchema is the on-disk cache document.
type CacheSchema struct {
	PluginVersion string            `json:"pluginVersion"`
	ConfigHash    string            `json:"configHash"`
	Routes        []CachedRouteInfo `json:"routes"`
}

// EmptyCache returns a valid, empty cache document.
func EmptyCache() CacheSchema {
	return CacheSchema{Routes: []CachedRouteInfo{}}
}

// DocInfo describes one processed document for the current run.
type DocInfo struct {
	RoutePath    string
	Title        string
	Description  string
	HTMLPath     string
	MarkdownFile string
	// MarkdownContent holds the converted text when no file is written.
	MarkdownContent string
	// SectionID pins the document to a section, bypassing route rules.
	SectionID string
	// URL overrides the rendered link target (attachments).
	URL string
}

// IsRoot reports whether the document is the site root page.
func (d DocInfo) IsRoot() bool {
	return d.RoutePath == "/" || d.RoutePath == "/index"
}

// HasContent reports whether full-content output can include the document.
func (d DocInfo) HasContent() bool {
	return d.MarkdownFile != "" || d.MarkdownContent != ""
}

// TreeNode is one category or section of the rendered index.
type TreeNode struct {
	Name          string
	RelPath       string
	SectionID     string
	Description   string
	Position      *int
	Docs          []DocInfo
	SubCategories []*TreeNode
	IndexDoc      *DocInfo
}

// IsEmpty reports whether the node renders nothing.
func (n *TreeNode) IsEmpty() bool {
	return len(n.Docs) == 0 && len(n.SubCategories) == 0 && n.IndexDoc == nil
}

// Segments splits a route path into its non-empty segments.
func Segments(routePath string) []string {
	parts := strings.Split(strings.Trim(routePath, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
