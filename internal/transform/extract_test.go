package transform

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestExtractContent_FirstMatchingSelectorWins(t *testing.T) {
	doc := parse(t, `<html><body>
		<div class="theme-doc-markdown"><p>doc</p></div>
		<article><p>article</p></article>
	</body></html>`)

	ex, err := ExtractContent(doc, []string{".missing", "article", ".theme-doc-markdown"})
	require.NoError(t, err)
	assert.Equal(t, "article", ex.Selector)
	assert.Equal(t, "article", strings.TrimSpace(ex.Content.Text()))
}

func TestExtractContent_FallsBackToMainInBody(t *testing.T) {
	doc := parse(t, `<html><body><nav>menu</nav><main><p>main text</p></main></body></html>`)

	ex, err := ExtractContent(doc, []string{".nothing"})
	require.NoError(t, err)
	assert.Equal(t, "body (fallback)", ex.Selector)
	assert.Equal(t, "main text", strings.TrimSpace(ex.Content.Text()))
}

func TestExtractTitle_Chain(t *testing.T) {
	assert.Equal(t, "Heading", ExtractTitle(parse(t, `<title>Page | Site</title><h1> Heading </h1>`)))
	assert.Equal(t, "Page", ExtractTitle(parse(t, `<title>Page | Site</title><p>x</p>`)))
	assert.Equal(t, "Only", ExtractTitle(parse(t, `<title>Only</title>`)))
	assert.Equal(t, DefaultTitle, ExtractTitle(parse(t, `<p>x</p>`)))
}

func TestExtractMetadata(t *testing.T) {
	meta, err := ExtractMetadata([]byte(`<html><head><meta name="description" content=" About us "></head><body><h1>About</h1></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, Metadata{Title: "About", Description: "About us"}, meta)
}
