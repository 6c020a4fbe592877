// Package paths maps route paths to HTML output paths, Markdown output
// paths and link URLs. Every function here is pure.
package paths

import (
	"path"
	"regexp"
	"strings"
)

const (
	IndexHTML = "index.html"
	IndexMD   = "index.md"
	mdExt     = ".md"
)

// EnsureLeadingSlash returns p with exactly one leading slash.
func EnsureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// StripTrailingSlash removes a trailing slash except from the root path.
func StripTrailingSlash(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return strings.TrimRight(p, "/")
	}
	return p
}

// RouteToHTMLPath maps a route to the HTML file the host build wrote for it,
// relative to the output directory.
//
//	/              -> index.html
//	/docs/intro    -> docs/intro/index.html  (trailing slash on)
//	/docs/intro    -> docs/intro.html        (trailing slash off)
//	/docs/         -> docs/index.html        (either mode)
func RouteToHTMLPath(route, baseURL string, trailingSlash bool) string {
	p := route
	if baseURL != "" && baseURL != "/" {
		base := "/" + strings.Trim(baseURL, "/")
		if p == base {
			p = "/"
		} else if strings.HasPrefix(p, base+"/") {
			p = strings.TrimPrefix(p, base)
		}
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return IndexHTML
	}
	if strings.HasSuffix(p, "/") {
		return p + IndexHTML
	}
	if !trailingSlash {
		return p + ".html"
	}
	return p + "/" + IndexHTML
}

var indexHTMLSuffix = regexp.MustCompile(`(?i)^(.*)/index\.html?$`)
var htmlExt = regexp.MustCompile(`(?i)\.html?$`)

// HTMLToMarkdownPath maps an HTML output path to its Markdown sibling.
// A directory index collapses onto the directory name, so "foo/index.html"
// and "foo.html" share "foo.md".
func HTMLToMarkdownPath(htmlPath string) string {
	htmlPath = strings.ReplaceAll(htmlPath, `\`, "/")
	if m := indexHTMLSuffix.FindStringSubmatch(htmlPath); m != nil {
		if m[1] == "" {
			return IndexMD
		}
		return m[1] + mdExt
	}
	if strings.EqualFold(htmlPath, IndexHTML) || strings.EqualFold(htmlPath, "index.htm") {
		return IndexMD
	}
	return htmlExt.ReplaceAllString(htmlPath, "") + mdExt
}

// URLOptions controls FormatURL.
type URLOptions struct {
	EnableMarkdownFiles bool
	RelativePaths       bool
	MarkdownFile        string
}

// FormatURL renders the link target for a document. With Markdown files
// enabled it points at the .md file. In absolute mode it is prefixed with
// siteURL.
func FormatURL(routePath string, opts URLOptions, siteURL string) string {
	target := EnsureLeadingSlash(routePath)
	switch {
	case opts.EnableMarkdownFiles && opts.MarkdownFile != "":
		target = EnsureLeadingSlash(opts.MarkdownFile)
	case opts.EnableMarkdownFiles:
		if target == "/" {
			target = "/" + IndexMD
		} else {
			target = StripTrailingSlash(target) + mdExt
		}
	}
	if !opts.RelativePaths && siteURL != "" {
		return JoinURL(siteURL, target)
	}
	return target
}

// SiteURL combines the site origin and base URL.
func SiteURL(url, baseURL string) string {
	if url == "" {
		return EnsureLeadingSlash(baseURL)
	}
	return JoinURL(url, baseURL)
}

// JoinURL joins URL parts with single slashes, preserving the scheme.
func JoinURL(parts ...string) string {
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			part = strings.TrimLeft(part, "/")
			if !strings.HasSuffix(b.String(), "/") {
				b.WriteByte('/')
			}
		}
		b.WriteString(part)
	}
	out := b.String()
	scheme := ""
	if i := strings.Index(out, "://"); i >= 0 {
		scheme, out = out[:i+3], out[i+3:]
	}
	for strings.Contains(out, "//") {
		out = strings.ReplaceAll(out, "//", "/")
	}
	return scheme + out
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// SectionIDFrom derives a kebab-case section id from a path segment.
func SectionIDFrom(segment string) string {
	id := Slugify(segment)
	if id == "" {
		return "root"
	}
	return id
}

// Clean normalizes a route path: leading slash, no duplicate slashes, no
// trailing slash except for the root.
func Clean(routePath string) string {
	if routePath == "" {
		return "/"
	}
	c := path.Clean(EnsureLeadingSlash(routePath))
	return c
}
