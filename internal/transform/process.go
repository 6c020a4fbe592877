package transform

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
)

// Processed is a converted page and the hash of its HTML.
type Processed struct {
	Doc  model.DocInfo
	Hash string
}

// FileProcessor converts pages from the build output directory.
type FileProcessor struct {
	conv     *Converter
	outDir   string
	generate config.GenerateConfig
	logger   *slog.Logger
}

// NewFileProcessor returns a processor reading HTML from outDir. Markdown
// files are written next to the HTML when enabled.
func NewFileProcessor(conv *Converter, outDir string, gen config.GenerateConfig) *FileProcessor {
	return &FileProcessor{conv: conv, outDir: outDir, generate: gen, logger: slog.Default()}
}

// WithLogger sets the logger.
func (p *FileProcessor) WithLogger(l *slog.Logger) *FileProcessor {
	if l != nil {
		p.logger = l
	}
	return p
}

// Process converts the page at htmlPath (relative to the output directory).
// With neither Markdown files nor full text enabled only the title and
// description are extracted. With full text but no Markdown files the
// content stays in memory.
func (p *FileProcessor) Process(ctx context.Context, routePath, htmlPath string, selectors []string) (Processed, error) {
	if err := ctx.Err(); err != nil {
		return Processed{}, err
	}
	full := filepath.Join(p.outDir, filepath.FromSlash(htmlPath))
	// #nosec G304 - htmlPath comes from the route mapping below outDir
	page, err := os.ReadFile(full)
	if err != nil {
		return Processed{}, ferrors.WrapError(err, ferrors.CategoryProcessing, "Failed to read HTML file").
			WithContext(ferrors.CtxFilePath, htmlPath).
			WithContext(ferrors.CtxRoute, routePath).
			Build()
	}

	res := Processed{
		Doc:  model.DocInfo{RoutePath: routePath, HTMLPath: htmlPath},
		Hash: cache.HashContent(page),
	}

	if !p.generate.EnableMarkdownFiles && !p.generate.EnableLlmsFullTxt {
		meta, err := ExtractMetadata(page)
		if err != nil {
			return Processed{}, withRoute(err, routePath, htmlPath)
		}
		res.Doc.Title, res.Doc.Description = meta.Title, meta.Description
		return res, nil
	}

	conv, err := p.conv.Convert(page, selectors, htmlPath)
	if err != nil {
		return Processed{}, withRoute(err, routePath, htmlPath)
	}
	res.Doc.Title, res.Doc.Description = conv.Title, conv.Description

	if !p.generate.EnableMarkdownFiles {
		res.Doc.MarkdownContent = conv.Markdown
		return res, nil
	}

	mdRel := paths.HTMLToMarkdownPath(htmlPath)
	written, err := WriteMarkdown(filepath.Join(p.outDir, filepath.FromSlash(mdRel)), conv.Markdown)
	if err != nil {
		return Processed{}, withRoute(err, routePath, htmlPath)
	}
	p.logger.Debug("Markdown file", logfields.Route(routePath), logfields.MarkdownFile(mdRel), slog.Bool("written", written))
	res.Doc.MarkdownFile = mdRel
	return res, nil
}

func withRoute(err error, routePath, htmlPath string) error {
	var ce *ferrors.ClassifiedError
	if errors.As(err, &ce) {
		return ce.WithContext(ferrors.CtxRoute, routePath)
	}
	return ferrors.WrapError(err, ferrors.CategoryProcessing, "Failed to process HTML file").
		WithContext(ferrors.CtxFilePath, htmlPath).
		WithContext(ferrors.CtxRoute, routePath).
		Build()
}
