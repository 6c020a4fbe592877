package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyRunID      = "run_id"
	KeyRoute      = "route"
	KeyHTMLPath   = "html_path"
	KeyMarkdown   = "markdown_file"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySection    = "section"
	KeyCount      = "count"
	KeyPath       = "path"
	KeyReason     = "reason"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Route(p string) slog.Attr        { return slog.String(KeyRoute, p) }
func HTMLPath(p string) slog.Attr     { return slog.String(KeyHTMLPath, p) }
func MarkdownFile(p string) slog.Attr { return slog.String(KeyMarkdown, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
