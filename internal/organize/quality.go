package organize

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
)

// IssueKind names a section quality problem.
type IssueKind string

const (
	IssueEmptySection  IssueKind = "empty_section"
	IssueUnusedSection IssueKind = "unused_section"
)

// Issue is one section quality finding.
type Issue struct {
	Kind      IssueKind
	SectionID string
	Message   string
}

func newIssue(kind IssueKind, sectionID string) Issue {
	msg := fmt.Sprintf("Section '%s' is defined but never used", sectionID)
	if kind == IssueEmptySection {
		msg = fmt.Sprintf("Section '%s' has no content and will be excluded from output", sectionID)
	}
	return Issue{Kind: kind, SectionID: sectionID, Message: msg}
}

// ReportIssue routes an issue through the onSectionError policy. Only the
// throw policy returns an error.
func ReportIssue(issue Issue, policy config.Severity, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{logfields.Section(issue.SectionID), slog.String("issue", string(issue.Kind))}
	switch policy {
	case config.SeverityIgnore:
		return nil
	case config.SeverityLog:
		logger.Debug(issue.Message, attrs...)
	case config.SeverityThrow:
		return ferrors.SectionError(issue.Message).
			WithContext(ferrors.CtxSectionID, issue.SectionID).
			WithContext("issue", string(issue.Kind)).
			Build()
	default:
		logger.Warn(issue.Message, attrs...)
	}
	return nil
}
