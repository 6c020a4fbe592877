package config

import (
	"fmt"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// FlatSection is a section definition with its parent resolved.
type FlatSection struct {
	Def      SectionDefinition
	ParentID string
	Depth    int
}

// FlattenSections lists every section and subsection depth first.
func FlattenSections(sections []SectionDefinition) []FlatSection {
	var out []FlatSection
	var walk func(list []SectionDefinition, parent string, depth int)
	walk = func(list []SectionDefinition, parent string, depth int) {
		for _, s := range list {
			out = append(out, FlatSection{Def: s, ParentID: parent, Depth: depth})
			walk(s.Subsections, s.ID, depth+1)
		}
	}
	walk(sections, "", 0)
	return out
}

// SectionIDs returns all section ids in declaration order.
func SectionIDs(sections []SectionDefinition) []string {
	flat := FlattenSections(sections)
	ids := make([]string, len(flat))
	for i, f := range flat {
		ids[i] = f.Def.ID
	}
	return ids
}

func (cv *configurationValidator) validateSections() error {
	sections := cv.config.Structure.Sections
	if err := validateUniqueIDs(sections); err != nil {
		return err
	}
	if err := validateReferences(sections, cv.config.Processing.Attachments); err != nil {
		return err
	}
	if err := validateAcyclic(sections); err != nil {
		return err
	}
	return validateSectionRoutes(sections)
}

func validateUniqueIDs(sections []SectionDefinition) error {
	seen := make(map[string]bool)
	var dups []string
	for _, id := range SectionIDs(sections) {
		if seen[id] {
			dups = append(dups, id)
		}
		seen[id] = true
	}
	if len(dups) == 0 {
		return nil
	}
	return ferrors.ConfigError(fmt.Sprintf(
		"Duplicate section IDs found: %s. All section and subsection IDs must be globally unique.",
		strings.Join(dups, ", "))).
		WithContext(ferrors.CtxSectionID, dups[0]).
		WithContext("duplicates", dups).
		Build()
}

func validateReferences(sections []SectionDefinition, attachments []AttachmentFile) error {
	ids := SectionIDs(sections)
	valid := make(map[string]bool, len(ids))
	for _, id := range ids {
		valid[id] = true
	}
	var invalid []string
	var first AttachmentFile
	for _, a := range attachments {
		if a.SectionID != "" && !valid[a.SectionID] {
			if len(invalid) == 0 {
				first = a
			}
			invalid = append(invalid, fmt.Sprintf("Attachment '%s' references non-existent section '%s'", a.Source, a.SectionID))
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return ferrors.ConfigError(fmt.Sprintf("Invalid section references found:\n%s\n\nAvailable sections: %s",
		strings.Join(invalid, "\n"), strings.Join(ids, ", "))).
		WithContext(ferrors.CtxSectionID, first.SectionID).
		WithContext(ferrors.CtxFilePath, first.Source).
		Build()
}

// validateAcyclic walks parent links with a visited set. Nesting makes the
// hierarchy a tree today; this keeps it one if sections ever reference
// parents by id.
func validateAcyclic(sections []SectionDefinition) error {
	parent := make(map[string]string)
	for _, f := range FlattenSections(sections) {
		parent[f.Def.ID] = f.ParentID
	}
	for id := range parent {
		visited := map[string]bool{}
		for cur := id; cur != ""; cur = parent[cur] {
			if visited[cur] {
				return ferrors.ConfigError(fmt.Sprintf("Circular section hierarchy detected at '%s'", cur)).
					WithContext(ferrors.CtxSectionID, cur).
					Build()
			}
			visited[cur] = true
		}
	}
	return nil
}

func validateSectionRoutes(sections []SectionDefinition) error {
	owner := make(map[string][]string)
	var patterns []string
	for _, f := range FlattenSections(sections) {
		for _, r := range f.Def.Routes {
			if err := validateRule(r, f.Def.ID); err != nil {
				return err
			}
			if _, ok := owner[r.Route]; !ok {
				patterns = append(patterns, r.Route)
			}
			owner[r.Route] = append(owner[r.Route], f.Def.ID)
		}
	}
	var conflicts []string
	for _, p := range patterns {
		if len(owner[p]) > 1 {
			conflicts = append(conflicts, fmt.Sprintf("Route '%s' is assigned to multiple sections: %s", p, strings.Join(owner[p], ", ")))
		}
	}
	if len(conflicts) == 0 {
		return nil
	}
	sort.Strings(conflicts)
	first := patterns[0]
	for _, p := range patterns {
		if len(owner[p]) > 1 {
			first = p
			break
		}
	}
	return ferrors.ConfigError("Duplicate route patterns found:\n"+strings.Join(conflicts, "\n")).
		WithContext(ferrors.CtxRoutePattern, first).
		WithContext(ferrors.CtxSectionID, owner[first][0]).
		Build()
}
