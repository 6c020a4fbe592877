package generate

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/organize"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func tree(t *testing.T, cfg *config.Config, docs ...model.DocInfo) *model.TreeNode {
	t.Helper()
	engine, err := routerules.New(cfg)
	require.NoError(t, err)
	root, err := organize.BuildTree(docs, cfg, engine, quiet)
	require.NoError(t, err)
	return root
}

func sampleDocs() []model.DocInfo {
	return []model.DocInfo{
		{RoutePath: "/", Title: "Home", Description: "Welcome", MarkdownFile: "index.md"},
		{RoutePath: "/docs/intro", Title: "Intro", Description: "Getting started", MarkdownFile: "docs/intro.md"},
		{RoutePath: "/guide/setup", Title: "Setup", MarkdownFile: "guide/setup.md"},
	}
}

func TestBuildIndex_ThreePages(t *testing.T) {
	cfg := config.Default()
	cfg.Site.Title = "Example"

	got := BuildIndex(tree(t, &cfg, sampleDocs()...), &cfg)

	want := "# Example\n\n" +
		"> Welcome\n\n" +
		"- [Home](/index.md): Welcome\n\n" +
		"\n## Docs\n\n- [Intro](/docs/intro.md): Getting started\n" +
		"\n## Guide\n\n- [Setup](/guide/setup.md)\n"
	assert.Equal(t, want, got)
}

func TestBuildIndex_TitleFallbacks(t *testing.T) {
	cfg := config.Default()
	docs := sampleDocs()

	assert.Contains(t, BuildIndex(tree(t, &cfg, docs...), &cfg), "# Home\n")
	assert.Contains(t, BuildIndex(tree(t, &cfg, docs[1:]...), &cfg), "# "+DefaultSiteTitle+"\n")

	cfg.Site.Title = "Site"
	cfg.Structure.SiteTitle = "Configured"
	assert.Contains(t, BuildIndex(tree(t, &cfg, docs...), &cfg), "# Configured\n")
}

func TestBuildIndex_OptionalLinksAndAbsoluteURLs(t *testing.T) {
	cfg := config.Default()
	cfg.Generate.RelativePaths = false
	cfg.Generate.EnableMarkdownFiles = false
	cfg.Structure.EnableDescriptions = false
	cfg.Site.URL = "https://example.com"
	cfg.Site.BaseURL = "/docs/"
	cfg.Structure.OptionalLinks = []config.OptionalLink{
		{Title: "Changelog", URL: "https://example.com/changelog", Description: "hidden"},
	}

	got := BuildIndex(tree(t, &cfg, sampleDocs()[1:]...), &cfg)
	assert.Contains(t, got, "- [Intro](https://example.com/docs/docs/intro)\n")
	assert.NotContains(t, got, "Getting started")
	assert.Contains(t, got, "\n## Optional\n- [Changelog](https://example.com/changelog)\n")
}

func TestBuildFull_ShiftsHeadingsAndSkipsRoot(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "docs"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "docs", "intro.md"),
		[]byte("# Intro\n\nHello.\n\n## Details\n\nMore.\n"), 0o600))

	docs := []model.DocInfo{
		{RoutePath: "/", Title: "Home", MarkdownContent: "root body"},
		{RoutePath: "/docs/intro", Title: "Intro", MarkdownFile: "docs/intro.md"},
		{RoutePath: "/docs/inline", Title: "Inline", MarkdownContent: "Inline body"},
		{RoutePath: "/docs/missing", Title: "Missing", MarkdownFile: "docs/missing.md"},
	}
	got := BuildFull("# Site\n", docs, nil, outDir, quiet)

	assert.Contains(t, got, "# Site\n\n\n---\n\n# Full Documentation Content\n\n")
	assert.Contains(t, got, "## Intro\n\nHello.\n\n#### Details\n\nMore.\n\n\n---\n\n")
	assert.Contains(t, got, "## Inline\n\nInline body\n\n---\n\n")
	assert.NotContains(t, got, "root body")
	assert.NotContains(t, got, "## Missing")
}

func TestFullDocs_TreeOrderWithoutAttachments(t *testing.T) {
	cfg := config.Default()
	docs := append(sampleDocs(), model.DocInfo{
		RoutePath: "/attachments/spec", Title: "Spec", SectionID: "attachments", URL: "/assets/spec.md",
	})
	got := FullDocs(tree(t, &cfg, docs...))

	var titles []string
	for _, d := range got {
		titles = append(titles, d.Title)
	}
	assert.Equal(t, []string{"Intro", "Setup"}, titles)
}

func TestGenerate_NoDocumentsWritesNothing(t *testing.T) {
	cfg := config.Default()
	engine, err := routerules.New(&cfg)
	require.NoError(t, err)
	outDir := t.TempDir()

	out, err := GenerateOutputs(nil, &cfg, engine, t.TempDir(), outDir, quiet)
	require.NoError(t, err)
	assert.Empty(t, out.LlmsTxtPath)
	assert.NoFileExists(t, filepath.Join(outDir, LlmsTxtFile))
}

func TestGenerate_WritesBothFilesWithAttachments(t *testing.T) {
	siteDir, outDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "openapi.yaml"), []byte("openapi: 3.0.0"), 0o600))

	cfg := config.Default()
	cfg.Generate.EnableLlmsFullTxt = true
	cfg.Processing.Attachments = []config.AttachmentFile{
		{Source: "openapi.yaml", Title: "API Spec", Description: "OpenAPI document"},
		{Source: "missing.md", Title: "Gone"},
	}
	engine, err := routerules.New(&cfg)
	require.NoError(t, err)

	docs := []model.DocInfo{{RoutePath: "/docs/intro", Title: "Intro", MarkdownContent: "Body"}}
	out, err := GenerateOutputs(docs, &cfg, engine, siteDir, outDir, quiet)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Attachments)

	index, err := os.ReadFile(out.LlmsTxtPath)
	require.NoError(t, err)
	assert.Contains(t, string(index), "## Attachments\n\n- [API Spec](/assets/llms-txt/attachments/openapi.md): OpenAPI document\n")

	full, err := os.ReadFile(out.LlmsFullTxtPath)
	require.NoError(t, err)
	assert.Contains(t, string(full), "## Intro\n\nBody\n\n---\n\n")
	assert.Contains(t, string(full), "# API Spec\n\n> OpenAPI document\n\nSource: openapi.yaml\n\n```yaml\nopenapi: 3.0.0\n```\n")

	copied, err := os.ReadFile(filepath.Join(outDir, "assets", "llms-txt", "attachments", "openapi.md"))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.0", string(copied))
}

func TestAttachment_FullContent(t *testing.T) {
	md := Attachment{Title: "Guide", Source: "docs/guide.md", Content: "# Guide\n\n## Part\n"}
	assert.Equal(t, "#### Part\n", md.FullContent())

	js := Attachment{Title: "Snippet", Source: "snippet.JS", Content: "let a = 1"}
	assert.Equal(t, "```javascript\nlet a = 1\n```", js.FullContent())

	assert.Equal(t, "text", CodeLanguage("notes.unknown"))
}

func TestAttachment_Doc(t *testing.T) {
	d := Attachment{Title: "Payment API  Spec", SectionID: "api", URL: "/assets/x.md"}.Doc()
	assert.Equal(t, "/api/payment-api-spec", d.RoutePath)
	assert.Equal(t, "api", d.SectionID)
	assert.Equal(t, "/assets/x.md", d.URL)
}

func TestWriteCopyContentData(t *testing.T) {
	outDir := t.TempDir()
	ts := time.UnixMilli(1700000000000)
	routes := []model.CachedRouteInfo{
		{Path: "/docs/a", MarkdownFile: "docs/a.md"},
		{Path: "/docs/b"},
	}

	p, err := WriteCopyContentData(routes, outDir, ts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "copy-content-data.1700000000000.json"), p)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	var got map[string]bool
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]bool{"/docs/a": true, "/docs/b": false}, got)
	assert.Contains(t, string(raw), "\n  \"/docs/a\": true")
}
