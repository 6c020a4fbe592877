package generate

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/markdown"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
)

const (
	// AttachmentsDir is where attachment copies land, relative to the output directory.
	AttachmentsDir = "assets/llms-txt/attachments"
	// DefaultAttachmentSection groups attachments without a sectionId.
	DefaultAttachmentSection = "attachments"
)

// Attachment is a copied attachment file ready for the outputs.
type Attachment struct {
	Title       string
	Description string
	SectionID   string
	URL         string
	Content     string
	Source      string
	InFullTxt   bool
}

// Doc returns the tree entry for the attachment.
func (a Attachment) Doc() model.DocInfo {
	slug := strings.Join(strings.Fields(strings.ToLower(a.Title)), "-")
	return model.DocInfo{
		RoutePath:   "/" + a.SectionID + "/" + slug,
		Title:       a.Title,
		Description: a.Description,
		SectionID:   a.SectionID,
		URL:         a.URL,
	}
}

// ProcessAttachments copies every attachment below outDir. A missing or
// unreadable source is logged and skipped.
func ProcessAttachments(files []config.AttachmentFile, siteDir, outDir string, logger *slog.Logger) ([]Attachment, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Join(outDir, filepath.FromSlash(AttachmentsDir))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create attachments directory").
			WithContext(ferrors.CtxFilePath, dir).
			Build()
	}

	var out []Attachment
	for _, f := range files {
		src := filepath.Join(siteDir, filepath.FromSlash(f.Source))
		// #nosec G304 - sources are validated to stay inside the site directory
		data, err := os.ReadFile(src)
		if err != nil {
			logger.Error("Attachment file not found", logfields.Path(f.Source), logfields.Error(err))
			continue
		}

		base := strings.TrimSuffix(filepath.Base(f.Source), filepath.Ext(f.Source)) + ".md"
		if _, err := transform.WriteMarkdown(filepath.Join(dir, base), string(data)); err != nil {
			logger.Error("Failed to process attachment", logfields.Path(f.Source), logfields.Error(err))
			continue
		}
		logger.Debug("Copied attachment", logfields.Path(f.Source), logfields.MarkdownFile(base))

		section := f.SectionID
		if section == "" {
			section = paths.SectionIDFrom(DefaultAttachmentSection)
		}
		out = append(out, Attachment{
			Title:       f.Title,
			Description: f.Description,
			SectionID:   section,
			URL:         "/" + path.Join(AttachmentsDir, base),
			Content:     string(data),
			Source:      f.Source,
			InFullTxt:   f.InFullTxt(),
		})
	}
	return out, nil
}

var codeLanguages = map[string]string{
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".xml":  "xml",
	".html": "html",
	".css":  "css",
	".js":   "javascript",
	".ts":   "typescript",
	".jsx":  "jsx",
	".tsx":  "tsx",
	".py":   "python",
	".java": "java",
	".c":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".php":  "php",
	".rb":   "ruby",
	".go":   "go",
	".rs":   "rust",
	".sh":   "bash",
	".sql":  "sql",
	".toml": "toml",
	".ini":  "ini",
	".conf": "text",
	".txt":  "text",
}

// CodeLanguage returns the fence language for a source file.
func CodeLanguage(source string) string {
	if lang, ok := codeLanguages[strings.ToLower(filepath.Ext(source))]; ok {
		return lang
	}
	return "text"
}

func isMarkdownSource(source string) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".md", ".mdx", "":
		return true
	}
	return false
}

// FullContent renders the attachment body for llms-full.txt. Markdown is
// processed like any page; everything else is fenced.
func (a Attachment) FullContent() string {
	if isMarkdownSource(a.Source) {
		out, err := markdown.ForFullContent([]byte(a.Content), a.Title)
		if err != nil {
			return a.Content
		}
		return string(out)
	}
	return "```" + CodeLanguage(a.Source) + "\n" + a.Content + "\n```"
}

func attachmentsFullAddition(attachments []Attachment) string {
	var b strings.Builder
	for _, a := range attachments {
		if !a.InFullTxt {
			continue
		}
		b.WriteString("\n---\n\n# ")
		b.WriteString(a.Title)
		b.WriteString("\n\n")
		if a.Description != "" {
			b.WriteString("> ")
			b.WriteString(a.Description)
			b.WriteString("\n\n")
		}
		b.WriteString("Source: ")
		b.WriteString(a.Source)
		b.WriteString("\n\n")
		b.WriteString(a.FullContent())
		b.WriteString("\n")
	}
	return b.String()
}
