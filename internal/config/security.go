package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

const (
	maxIDLength     = 64
	maxSourceLength = 1024
	maxTitleLength  = 256
)

var sectionIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// validateSecurity rejects identifiers and paths that are unsafe regardless
// of whether the document is otherwise well-formed.
func (cv *configurationValidator) validateSecurity() error {
	for _, f := range FlattenSections(cv.config.Structure.Sections) {
		if err := ValidateSectionID(f.Def.ID); err != nil {
			return err
		}
		if f.Def.Name == "" {
			return ferrors.ValidationError("section name is required").
				WithContext(ferrors.CtxSectionID, f.Def.ID).
				Build()
		}
	}
	for _, a := range cv.config.Processing.Attachments {
		if a.SectionID != "" {
			if err := ValidateSectionID(a.SectionID); err != nil {
				return err
			}
		}
		if err := ValidateAttachmentSource(a.Source); err != nil {
			return err
		}
		if len(a.Title) > maxTitleLength {
			return ferrors.ValidationError(fmt.Sprintf("attachment title exceeds %d characters", maxTitleLength)).
				WithContext(ferrors.CtxFilePath, a.Source).
				Build()
		}
	}
	return nil
}

// ValidateSectionID enforces kebab-case ids of bounded length.
func ValidateSectionID(id string) error {
	switch {
	case id == "":
		return ferrors.ValidationError("section id is required").Build()
	case len(id) > maxIDLength:
		return ferrors.ValidationError(fmt.Sprintf("section id exceeds %d characters", maxIDLength)).
			WithContext(ferrors.CtxSectionID, id).
			Build()
	case !sectionIDPattern.MatchString(id):
		return ferrors.ValidationError(fmt.Sprintf("section id '%s' must be kebab-case (lowercase letters, digits and hyphens)", id)).
			WithContext(ferrors.CtxSectionID, id).
			Build()
	}
	return nil
}

// ValidateAttachmentSource rejects absolute paths and parent traversal.
func ValidateAttachmentSource(source string) error {
	build := func(msg string) error {
		return ferrors.ValidationError(msg).WithContext(ferrors.CtxFilePath, source).Build()
	}
	if len(source) > maxSourceLength {
		return build(fmt.Sprintf("attachment source exceeds %d characters", maxSourceLength))
	}
	if filepath.IsAbs(source) || strings.HasPrefix(source, "/") || strings.HasPrefix(source, `\`) {
		return build(fmt.Sprintf("attachment source '%s' must be relative to the site directory", source))
	}
	for _, seg := range strings.FieldsFunc(source, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return build(fmt.Sprintf("attachment source '%s' must not contain '..' segments", source))
		}
	}
	if strings.ContainsRune(source, 0) {
		return build("attachment source contains a NUL byte")
	}
	return nil
}
