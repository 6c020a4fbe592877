package transform

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

func writePage(t *testing.T, outDir, rel, content string) {
	t.Helper()
	p := filepath.Join(outDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

const introPage = `<html><head><meta name="description" content="First steps"></head><body><main><h1>Intro</h1><p>Welcome.</p></main></body></html>`

func TestFileProcessor_WritesMarkdownFile(t *testing.T) {
	out := t.TempDir()
	writePage(t, out, "docs/intro/index.html", introPage)
	p := NewFileProcessor(newTestConverter(t, Options{}), out, config.GenerateConfig{EnableMarkdownFiles: true})

	res, err := p.Process(context.Background(), "/docs/intro", "docs/intro/index.html", []string{"main"})
	require.NoError(t, err)

	assert.Equal(t, "docs/intro.md", res.Doc.MarkdownFile)
	assert.Empty(t, res.Doc.MarkdownContent)
	assert.Equal(t, "Intro", res.Doc.Title)
	assert.Equal(t, "First steps", res.Doc.Description)
	assert.Equal(t, cache.HashContent([]byte(introPage)), res.Hash)

	data, err := os.ReadFile(filepath.Join(out, "docs", "intro.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Welcome.")
}

func TestFileProcessor_FullTextOnlyKeepsContentInMemory(t *testing.T) {
	out := t.TempDir()
	writePage(t, out, "docs/intro/index.html", introPage)
	p := NewFileProcessor(newTestConverter(t, Options{}), out, config.GenerateConfig{EnableLlmsFullTxt: true})

	res, err := p.Process(context.Background(), "/docs/intro", "docs/intro/index.html", []string{"main"})
	require.NoError(t, err)
	assert.Empty(t, res.Doc.MarkdownFile)
	assert.Contains(t, res.Doc.MarkdownContent, "Welcome.")
	_, err = os.Stat(filepath.Join(out, "docs", "intro.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileProcessor_MetadataOnly(t *testing.T) {
	out := t.TempDir()
	writePage(t, out, "index.html", `<html><head><title>Home | Site</title></head><body></body></html>`)
	p := NewFileProcessor(newTestConverter(t, Options{}), out, config.GenerateConfig{})

	res, err := p.Process(context.Background(), "/", "index.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "Home", res.Doc.Title)
	assert.False(t, res.Doc.HasContent())
}

func TestFileProcessor_MissingFile(t *testing.T) {
	p := NewFileProcessor(newTestConverter(t, Options{}), t.TempDir(), config.GenerateConfig{})
	_, err := p.Process(context.Background(), "/gone", "gone/index.html", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryProcessing))
	route, _ := ferrors.GetContext(err).GetString(ferrors.CtxRoute)
	assert.Equal(t, "/gone", route)
}

func TestWriteMarkdown_SkipsUnchangedContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b.md")
	written, err := WriteMarkdown(p, "# B\n")
	require.NoError(t, err)
	assert.True(t, written)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	written, err = WriteMarkdown(p, "# B\n")
	require.NoError(t, err)
	assert.False(t, written)
	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.WithinDuration(t, old, info.ModTime(), time.Second)

	written, err = WriteMarkdown(p, "# B changed\n")
	require.NoError(t, err)
	assert.True(t, written)
}
