package generate

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/organize"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
)

const (
	LlmsTxtFile     = "llms.txt"
	LlmsFullTxtFile = "llms-full.txt"
)

// MsgNoDocuments is logged when a run has nothing to index.
const MsgNoDocuments = "No documents found to generate llms.txt"

// Outputs describes the files one generation wrote.
type Outputs struct {
	LlmsTxtPath     string
	LlmsFullTxtPath string
	ContentLength   int
	Attachments     int
}

// Generator writes the index outputs into the build output directory.
type Generator struct {
	cfg     *config.Config
	engine  *routerules.Engine
	siteDir string
	outDir  string
	logger  *slog.Logger
}

// NewGenerator returns a generator reading attachments below siteDir and
// writing into outDir.
func NewGenerator(cfg *config.Config, engine *routerules.Engine, siteDir, outDir string) *Generator {
	return &Generator{cfg: cfg, engine: engine, siteDir: siteDir, outDir: outDir, logger: slog.Default()}
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	if l != nil {
		g.logger = l
	}
	return g
}

// Generate builds the tree for docs and writes llms.txt, plus llms-full.txt
// when enabled. With no documents nothing is written.
func (g *Generator) Generate(docs []model.DocInfo) (Outputs, error) {
	if len(docs) == 0 {
		g.logger.Info(MsgNoDocuments)
		return Outputs{}, nil
	}

	attachments, err := ProcessAttachments(g.cfg.Processing.Attachments, g.siteDir, g.outDir, g.logger)
	if err != nil {
		return Outputs{}, err
	}
	all := append([]model.DocInfo(nil), docs...)
	for _, a := range attachments {
		all = append(all, a.Doc())
	}

	root, err := organize.BuildTree(all, g.cfg, g.engine, g.logger)
	if err != nil {
		return Outputs{}, err
	}

	index := BuildIndex(root, g.cfg)
	out := Outputs{
		LlmsTxtPath:   filepath.Join(g.outDir, LlmsTxtFile),
		ContentLength: len(index),
		Attachments:   len(attachments),
	}
	if _, err := transform.WriteMarkdown(out.LlmsTxtPath, index); err != nil {
		return Outputs{}, err
	}
	g.logger.Info("Generated llms.txt", logfields.Count(len(docs)), logfields.Path(out.LlmsTxtPath))

	if !g.cfg.Generate.EnableLlmsFullTxt {
		return out, nil
	}
	full := BuildFull(index, FullDocs(root), attachments, g.outDir, g.logger)
	out.LlmsFullTxtPath = filepath.Join(g.outDir, LlmsFullTxtFile)
	if _, err := transform.WriteMarkdown(out.LlmsFullTxtPath, full); err != nil {
		return Outputs{}, err
	}
	out.ContentLength += len(full)
	g.logger.Info("Generated llms-full.txt", logfields.Count(len(docs)), logfields.Path(out.LlmsFullTxtPath))
	return out, nil
}

// GenerateOutputs is shorthand for NewGenerator(...).WithLogger(logger).Generate(docs).
func GenerateOutputs(docs []model.DocInfo, cfg *config.Config, engine *routerules.Engine, siteDir, outDir string, logger *slog.Logger) (Outputs, error) {
	return NewGenerator(cfg, engine, siteDir, outDir).WithLogger(logger).Generate(docs)
}
