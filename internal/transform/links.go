package transform

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"git.home.luguber.info/inful/llmstxt/internal/discovery"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
)

// LookupEntry is what link rewriting needs to know about a processed route.
type LookupEntry struct {
	HTMLPath     string
	MarkdownFile string
}

// RouteLookup maps route paths to processed routes. A path that is absent
// will not get a Markdown file.
type RouteLookup map[string]LookupEntry

// Resolve finds the route a link path refers to: the path itself, then with
// and without a trailing slash, then with "/index". Unknown paths are
// returned unchanged.
func (l RouteLookup) Resolve(p string) string {
	if l == nil {
		return p
	}
	trimmed := strings.TrimSuffix(p, "/")
	candidates := []string{p, trimmed + "/", trimmed, trimmed + "/index"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := l[c]; ok {
			return c
		}
	}
	return p
}

// LinkOptions configures link rewriting.
type LinkOptions struct {
	EnableMarkdownFiles bool
	RelativePaths       bool
	SiteURL             string
	Lookup              RouteLookup
	Exclude             *discovery.ExclusionMatcher
}

// Skip reports whether links are left untouched: relative links to HTML
// pages already point at the right place.
func (o LinkOptions) Skip() bool {
	return o.RelativePaths && !o.EnableMarkdownFiles
}

var docExt = regexp.MustCompile(`(?i)\.(html?|md)$`)

// IsInternalLink reports whether href points into the site.
func IsInternalLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "//") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func normalizeLinkPath(p string) string {
	p = strings.TrimPrefix(p, "./")
	p = paths.EnsureLeadingSlash(p)
	p = docExt.ReplaceAllString(p, "")
	return paths.StripTrailingSlash(p)
}

// RewriteLink maps an internal href to the Markdown output. Links to routes
// that produce no Markdown keep their HTML target: in absolute mode they get
// the site URL, in relative mode they are returned unchanged.
func RewriteLink(href string, o LinkOptions) string {
	if !IsInternalLink(href) {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	resolved := o.Lookup.Resolve(normalizeLinkPath(u.EscapedPath()))
	entry, known := o.Lookup[resolved]
	excluded := o.Exclude.Excluded(resolved) || (o.Lookup != nil && (!known || entry.HTMLPath == ""))

	opts := paths.URLOptions{
		EnableMarkdownFiles: o.EnableMarkdownFiles,
		RelativePaths:       o.RelativePaths,
		MarkdownFile:        entry.MarkdownFile,
	}
	if excluded {
		if o.RelativePaths {
			return href
		}
		opts.EnableMarkdownFiles = false
		opts.MarkdownFile = ""
	}

	out := paths.FormatURL(resolved, opts, o.SiteURL)
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}

// RewriteLinks rewrites every internal anchor below content.
func RewriteLinks(content *goquery.Selection, o LinkOptions) {
	if o.Skip() {
		return
	}
	content.Find("a[href]").AddSelection(content.Filter("a[href]")).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if next := RewriteLink(href, o); next != href {
			a.SetAttr("href", next)
		}
	})
}
