// Package generate renders llms.txt and llms-full.txt from the document tree.
package generate

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/markdown"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/organize"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
)

// DefaultSiteTitle heads llms.txt when nothing better is known.
const DefaultSiteTitle = "Documentation"

const fullContentHeader = "\n\n---\n\n# Full Documentation Content\n\n"

// SiteURL is the absolute prefix for links in non-relative mode.
func SiteURL(site model.SiteInfo) string {
	if site.BaseURL == "" || site.BaseURL == "/" {
		return site.URL
	}
	return paths.JoinURL(site.URL, site.BaseURL)
}

// RenderOptions derives tree render options from the configuration.
func RenderOptions(cfg *config.Config) organize.RenderOptions {
	return organize.RenderOptions{
		EnableMarkdownFiles: cfg.Generate.EnableMarkdownFiles,
		RelativePaths:       cfg.Generate.RelativePaths,
		EnableDescriptions:  cfg.Structure.EnableDescriptions,
		SiteURL:             SiteURL(cfg.Site),
	}
}

// BuildIndex renders llms.txt for a built tree.
func BuildIndex(root *model.TreeNode, cfg *config.Config) string {
	opts := RenderOptions(cfg)
	rootDoc := root.IndexDoc

	title := DefaultSiteTitle
	switch {
	case cfg.Structure.SiteTitle != "":
		title = cfg.Structure.SiteTitle
	case cfg.Site.Title != "":
		title = cfg.Site.Title
	case rootDoc != nil && rootDoc.Title != "":
		title = rootDoc.Title
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")

	if opts.EnableDescriptions {
		desc := cfg.Structure.SiteDescription
		if desc == "" && rootDoc != nil {
			desc = rootDoc.Description
		}
		if desc != "" {
			b.WriteString("> " + desc + "\n\n")
		}
	}

	if rootDoc != nil {
		b.WriteString(organize.LinkLine(*rootDoc, opts))
		b.WriteString("\n")
	}

	b.WriteString(organize.RenderTree(root, organize.DefaultHeadingLevel, opts))

	if links := cfg.Structure.OptionalLinks; len(links) > 0 {
		b.WriteString("\n## Optional\n")
		for _, l := range links {
			b.WriteString("- [" + l.Title + "](" + l.URL + ")")
			if opts.EnableDescriptions && l.Description != "" {
				b.WriteString(": " + l.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FullDocs lists the documents llms-full.txt covers, in tree order. The root
// page and attachments are left out.
func FullDocs(root *model.TreeNode) []model.DocInfo {
	var out []model.DocInfo
	var walk func(n *model.TreeNode)
	walk = func(n *model.TreeNode) {
		if n != root && n.IndexDoc != nil {
			out = append(out, *n.IndexDoc)
		}
		out = append(out, n.Docs...)
		for _, c := range n.SubCategories {
			walk(c)
		}
	}
	walk(root)

	kept := out[:0]
	for _, d := range out {
		if d.URL == "" && d.HasContent() {
			kept = append(kept, d)
		}
	}
	return kept
}

// BuildFull appends every non-root document body to the llms.txt content.
// Bodies are taken from memory or read below outDir; unreadable files are
// skipped.
func BuildFull(index string, docs []model.DocInfo, attachments []Attachment, outDir string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}
	var b strings.Builder
	b.WriteString(index)
	b.WriteString(fullContentHeader)

	for _, d := range docs {
		if d.IsRoot() || !d.HasContent() {
			continue
		}
		body := d.MarkdownContent
		if body == "" {
			// #nosec G304 - markdown files are written by this run below outDir
			data, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(d.MarkdownFile)))
			if err != nil {
				logger.Warn("Failed to read markdown file",
					logfields.Route(d.RoutePath), logfields.MarkdownFile(d.MarkdownFile), logfields.Error(err))
				continue
			}
			body = string(data)
		}
		processed, err := markdown.ForFullContent([]byte(body), d.Title)
		if err != nil {
			logger.Warn("Failed to adjust headings", logfields.Route(d.RoutePath), logfields.Error(err))
			processed = []byte(body)
		}

		b.WriteString("## " + d.Title + "\n\n")
		b.Write(processed)
		b.WriteString("\n\n---\n\n")
	}

	b.WriteString(attachmentsFullAddition(attachments))
	return b.String()
}
