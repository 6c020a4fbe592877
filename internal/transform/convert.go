package transform

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/markdown"
)

// removedTags never reach the Markdown output.
var removedTags = []string{"nav", "script", "style", "button", "footer"}

// Options configures a Converter for one run.
type Options struct {
	Links         LinkOptions
	GFM           bool
	ProcessTables bool
	Stages        config.StagesConfig
}

// Result is one converted page.
type Result struct {
	Markdown    string
	Title       string
	Description string
}

// Converter runs the HTML and Markdown stage pipelines around the
// html-to-markdown conversion. It is safe for concurrent use.
type Converter struct {
	opts       Options
	md         *converter.Converter
	htmlBefore []boundHTMLStage
	htmlAfter  []boundHTMLStage
	mdBefore   []boundMarkdownStage
	mdAfter    []boundMarkdownStage
	logger     *slog.Logger
}

// NewConverter binds the configured user stages. Unknown stage names are
// configuration errors.
func NewConverter(opts Options, reg *Registry) (*Converter, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	c := &Converter{opts: opts, logger: slog.Default()}
	var err error
	if c.htmlBefore, err = reg.bindHTML(opts.Stages.HTMLBefore); err != nil {
		return nil, err
	}
	if c.htmlAfter, err = reg.bindHTML(opts.Stages.HTMLAfter); err != nil {
		return nil, err
	}
	if c.mdBefore, err = reg.bindMarkdown(opts.Stages.MarkdownBefore); err != nil {
		return nil, err
	}
	if c.mdAfter, err = reg.bindMarkdown(opts.Stages.MarkdownAfter); err != nil {
		return nil, err
	}

	plugins := []converter.Plugin{base.NewBasePlugin(), commonmark.NewCommonmarkPlugin()}
	if opts.GFM {
		plugins = append(plugins, table.NewTablePlugin(), strikethrough.NewStrikethroughPlugin())
	}
	c.md = converter.NewConverter(converter.WithPlugins(plugins...))
	for _, tag := range removedTags {
		c.md.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return c, nil
}

// WithLogger sets the logger used for stage warnings.
func (c *Converter) WithLogger(l *slog.Logger) *Converter {
	if l != nil {
		c.logger = l
	}
	return c
}

// Convert turns one HTML page into Markdown. relPath identifies the page in
// errors and logs.
func (c *Converter) Convert(page []byte, selectors []string, relPath string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategoryProcessing, "parse HTML").
			WithContext(ferrors.CtxFilePath, relPath).
			Build()
	}
	ex, err := ExtractContent(doc, selectors)
	if err != nil {
		return Result{}, err
	}
	c.logger.Debug("Selected content", logfields.HTMLPath(relPath), slog.String("selector", ex.Selector))

	c.runHTML(c.htmlBefore, ex.Content, relPath)
	if c.opts.ProcessTables {
		NormalizeTables(ex.Content)
	}
	RewriteLinks(ex.Content, c.opts.Links)
	c.runHTML(c.htmlAfter, ex.Content, relPath)

	raw, err := c.md.ConvertNode(ex.Content.Get(0))
	if err != nil {
		return Result{}, ferrors.WrapError(err, ferrors.CategoryProcessing, "HTML to Markdown conversion failed").
			WithContext(ferrors.CtxFilePath, relPath).
			Build()
	}

	md := c.runMarkdown(c.mdBefore, string(raw), relPath)
	md = string(markdown.NormalizeGFM([]byte(md)))
	md = c.runMarkdown(c.mdAfter, md, relPath)
	md = strings.TrimSpace(md)

	if md == "" {
		return Result{}, ferrors.ProcessingError(fmt.Sprintf("HTML to Markdown conversion resulted in empty content for %q (content selectors tried: %s)", relPath, strings.Join(selectors, ", "))).
			WithContext(ferrors.CtxFilePath, relPath).
			WithContext(ferrors.CtxContentSelectors, selectors).
			Build()
	}
	return Result{Markdown: md, Title: ex.Title, Description: ex.Description}, nil
}

func (c *Converter) runHTML(stages []boundHTMLStage, content *goquery.Selection, relPath string) {
	for _, s := range stages {
		if err := s.fn(content, s.opts); err != nil {
			c.logger.Warn("Skipping failed stage", logfields.Stage(s.name), logfields.HTMLPath(relPath), logfields.Error(err))
		}
	}
}

func (c *Converter) runMarkdown(stages []boundMarkdownStage, md, relPath string) string {
	for _, s := range stages {
		out, err := s.fn(md, s.opts)
		if err != nil {
			c.logger.Warn("Skipping failed stage", logfields.Stage(s.name), logfields.HTMLPath(relPath), logfields.Error(err))
			continue
		}
		md = out
	}
	return md
}
