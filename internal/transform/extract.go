// Package transform turns rendered HTML pages into Markdown documents.
package transform

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// DefaultTitle is used when a page has neither an h1 nor a <title>.
const DefaultTitle = "Untitled Document"

// fallbackNarrowing picks the main region inside <body> when no configured
// selector matched.
const fallbackNarrowing = "main, .main-wrapper, #__docusaurus"

// Extracted is the content region of a page plus its metadata.
type Extracted struct {
	Content     *goquery.Selection
	Selector    string
	Title       string
	Description string
}

// Metadata is the title and description of a page.
type Metadata struct {
	Title       string
	Description string
}

// ExtractContent selects the content region of doc. Selectors are tried in
// order and the first element matched by the first matching selector wins;
// without a match the body is used, narrowed to the main region if present.
func ExtractContent(doc *goquery.Document, selectors []string) (Extracted, error) {
	ex := Extracted{Title: ExtractTitle(doc), Description: ExtractDescription(doc)}

	for _, sel := range selectors {
		if strings.TrimSpace(sel) == "" {
			continue
		}
		if m := doc.Find(sel).First(); m.Length() > 0 {
			ex.Content, ex.Selector = m, sel
			return ex, nil
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		ex.Content, ex.Selector = body, "body (fallback)"
		if main := body.Find(fallbackNarrowing).First(); main.Length() > 0 {
			ex.Content = main
		}
		return ex, nil
	}

	return ex, ferrors.ProcessingError("No content could be extracted from HTML using the provided contentSelectors: ["+strings.Join(selectors, ", ")+"]").
		WithContext(ferrors.CtxContentSelectors, selectors).
		Build()
}

// ExtractTitle returns the first h1 text, else the part of <title> before
// the first '|', else DefaultTitle.
func ExtractTitle(doc *goquery.Document) string {
	h1 := doc.Find("h1").First().Clone()
	h1.Find(".hash-link").Remove()
	if t := collapseSpace(h1.Text()); t != "" {
		return t
	}
	full := strings.TrimSpace(doc.Find("title").First().Text())
	if full == "" {
		return DefaultTitle
	}
	if first, _, found := strings.Cut(full, "|"); found && strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	return full
}

// ExtractDescription returns the meta description or "".
func ExtractDescription(doc *goquery.Document) string {
	v, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(v)
}

// ExtractMetadata parses page and returns only its title and description.
func ExtractMetadata(page []byte) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Metadata{}, ferrors.WrapError(err, ferrors.CategoryProcessing, "Failed to extract title and description from HTML").Build()
	}
	return Metadata{Title: ExtractTitle(doc), Description: ExtractDescription(doc)}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
