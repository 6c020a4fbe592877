package organize

import (
	"strings"

	"git.home.luguber.info/inful/llmstxt/internal/markdown"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
)

// DefaultHeadingLevel is the level top-level sections render at.
const DefaultHeadingLevel = 2

// RenderOptions controls link targets and descriptions in the rendered tree.
type RenderOptions struct {
	EnableMarkdownFiles bool
	RelativePaths       bool
	EnableDescriptions  bool
	SiteURL             string
}

// DocURL returns the link target for a document.
func DocURL(d model.DocInfo, opts RenderOptions) string {
	if d.URL != "" {
		return paths.FormatURL(d.URL, paths.URLOptions{RelativePaths: opts.RelativePaths}, opts.SiteURL)
	}
	return paths.FormatURL(d.RoutePath, paths.URLOptions{
		EnableMarkdownFiles: opts.EnableMarkdownFiles,
		RelativePaths:       opts.RelativePaths,
		MarkdownFile:        d.MarkdownFile,
	}, opts.SiteURL)
}

// LinkLine renders "- [title](url): description".
func LinkLine(d model.DocInfo, opts RenderOptions) string {
	line := "- [" + d.Title + "](" + DocURL(d, opts) + ")"
	if opts.EnableDescriptions && d.Description != "" {
		line += ": " + d.Description
	}
	return line + "\n"
}

// RenderTree renders node as the root of a Markdown link tree. The root's
// own index document is left to the caller.
func RenderTree(node *model.TreeNode, level int, opts RenderOptions) string {
	var b strings.Builder
	renderNode(&b, node, level, true, opts)
	return b.String()
}

func renderNode(b *strings.Builder, node *model.TreeNode, level int, isRoot bool, opts RenderOptions) {
	if !isRoot && node.Name != "" {
		if node.IndexDoc == nil || paths.Slugify(node.IndexDoc.Title) != paths.Slugify(node.Name) {
			b.WriteString(strings.Repeat("#", min(level, markdown.MaxHeadingLevel)))
			b.WriteString(" ")
			b.WriteString(node.Name)
			b.WriteString("\n\n")
			if opts.EnableDescriptions && node.Description != "" {
				b.WriteString(node.Description)
				b.WriteString("\n\n")
			}
		}
	}
	if node.IndexDoc != nil && !isRoot {
		b.WriteString(LinkLine(*node.IndexDoc, opts))
	}
	for _, d := range node.Docs {
		b.WriteString(LinkLine(d, opts))
	}
	next := level + 1
	if isRoot {
		next = level
	}
	for _, sub := range node.SubCategories {
		b.WriteString("\n")
		renderNode(b, sub, next, false, opts)
	}
}
