// Package organize groups processed documents into the section tree that
// llms.txt is rendered from.
package organize

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/paths"
	"git.home.luguber.info/inful/llmstxt/internal/routeglob"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
)

// RootName names the tree root when no site title is configured.
const RootName = "root"

// Builder assembles the document tree for one run.
type Builder struct {
	cfg    *config.Config
	engine *routerules.Engine
	logger *slog.Logger
}

// NewBuilder creates a builder bound to a configuration and its rule engine.
func NewBuilder(cfg *config.Config, engine *routerules.Engine) *Builder {
	return &Builder{cfg: cfg, engine: engine, logger: slog.Default()}
}

// WithLogger sets the logger used for quality reports.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// BuildTree is shorthand for NewBuilder(cfg, engine).WithLogger(logger).Build(docs).
func BuildTree(docs []model.DocInfo, cfg *config.Config, engine *routerules.Engine, logger *slog.Logger) (*model.TreeNode, error) {
	return NewBuilder(cfg, engine).WithLogger(logger).Build(docs)
}

type sectionState struct {
	node       *model.TreeNode
	categories map[string]*model.TreeNode
}

type treeState struct {
	b        *Builder
	sections map[string]*sectionState
	order    []string
}

// Build groups docs into sections and categories, runs the quality pass and
// sorts every level. A throw policy turns the first quality issue into an
// error.
func (b *Builder) Build(docs []model.DocInfo) (*model.TreeNode, error) {
	root := &model.TreeNode{
		Name:        RootName,
		RelPath:     "/",
		Description: b.cfg.Structure.SiteDescription,
	}
	if b.cfg.Structure.SiteTitle != "" {
		root.Name = b.cfg.Structure.SiteTitle
	}

	t := &treeState{b: b, sections: make(map[string]*sectionState)}
	for i := range docs {
		d := docs[i]
		if d.IsRoot() && d.SectionID == "" {
			if root.IndexDoc == nil {
				root.IndexDoc = &d
			}
			continue
		}
		t.place(d)
	}

	cmp := newComparator()
	for _, id := range t.order {
		s := t.sections[id]
		t.finalize(s.node, s, cmp)
	}

	if err := t.attachSections(root); err != nil {
		return nil, err
	}

	for _, id := range t.order {
		s := t.sections[id]
		t.sortNode(s.node, t.sectionIncludeOrder(id), cmp)
	}
	t.sortNode(root, nil, cmp)
	return root, nil
}

func (t *treeState) place(d model.DocInfo) {
	if d.SectionID != "" {
		s := t.section(d.SectionID)
		s.node.Docs = append(s.node.Docs, d)
		return
	}

	norm := paths.StripTrailingSlash(paths.EnsureLeadingSlash(d.RoutePath))
	segs := model.Segments(norm)
	ec := t.b.engine.Resolve(norm)
	s := t.section(ec.SectionID)
	depth := ec.Depth
	if depth < 1 {
		depth = routerules.DefaultDepth
	}

	n := len(segs)
	switch {
	case n > depth:
		node := s.category(t.b.engine, segs[:depth])
		node.Docs = append(node.Docs, d)
	case n == depth && n > 1:
		node := s.category(t.b.engine, segs)
		if node.IndexDoc == nil {
			node.IndexDoc = &d
		} else {
			node.Docs = append(node.Docs, d)
		}
	case n == depth:
		s.node.Docs = append(s.node.Docs, d)
	default:
		node := s.category(t.b.engine, segs[:max(n-1, 0)])
		node.Docs = append(node.Docs, d)
	}
}

// section returns the state for id, creating its node from the section
// definition or from the id itself.
func (t *treeState) section(id string) *sectionState {
	if s, ok := t.sections[id]; ok {
		return s
	}
	node := &model.TreeNode{
		Name:      routerules.AutoSectionName(id),
		RelPath:   "/" + id,
		SectionID: id,
	}
	if f, ok := t.b.engine.Section(id); ok {
		if f.Def.Name != "" {
			node.Name = f.Def.Name
		}
		node.Description = f.Def.Description
		node.Position = f.Def.Position
	}
	s := &sectionState{
		node:       node,
		categories: make(map[string]*model.TreeNode),
	}
	t.sections[id] = s
	t.order = append(t.order, id)
	return s
}

// category returns the node for the category at segs. The first segment is
// the section itself, so one segment or fewer resolves to the section node.
func (s *sectionState) category(engine *routerules.Engine, segs []string) *model.TreeNode {
	if len(segs) <= 1 {
		return s.node
	}
	key := "/" + strings.Join(segs, "/")
	if node, ok := s.categories[key]; ok {
		return node
	}
	parent := s.category(engine, segs[:len(segs)-1])
	node := &model.TreeNode{
		Name:      engine.Resolve(key).CategoryName,
		RelPath:   key,
		SectionID: s.node.SectionID,
	}
	s.categories[key] = node
	parent.SubCategories = append(parent.SubCategories, node)
	return node
}

// finalize resolves index documents and single-document categories
// bottom-up, then sorts the level.
func (t *treeState) finalize(node *model.TreeNode, s *sectionState, cmp *comparator) {
	for _, c := range node.SubCategories {
		t.finalize(c, s, cmp)
	}

	children := make(map[string]*model.TreeNode, len(node.SubCategories))
	for _, c := range node.SubCategories {
		children[c.RelPath] = c
	}
	var docs []model.DocInfo
	for _, d := range node.Docs {
		key := paths.StripTrailingSlash(paths.EnsureLeadingSlash(d.RoutePath))
		if c, ok := children[key]; ok && c.IndexDoc == nil && d.SectionID == "" {
			doc := d
			c.IndexDoc = &doc
			continue
		}
		docs = append(docs, d)
	}

	var subs []*model.TreeNode
	for _, c := range node.SubCategories {
		if len(c.Docs) == 0 && len(c.SubCategories) == 0 && c.IndexDoc != nil {
			docs = append(docs, *c.IndexDoc)
			continue
		}
		if c.IsEmpty() {
			continue
		}
		subs = append(subs, c)
	}
	node.Docs = docs
	node.SubCategories = subs

	if node != s.node {
		t.sortNode(node, t.b.engine.IncludeOrder(node.RelPath), cmp)
	}
}

// attachSections hangs section nodes under their parent section or the
// root, and reports defined sections that ended up without content.
func (t *treeState) attachSections(root *model.TreeNode) error {
	policy := t.b.cfg.OnSectionError
	targeted := make(map[string]bool)
	for _, a := range t.b.cfg.Processing.Attachments {
		if a.SectionID != "" {
			targeted[a.SectionID] = true
		}
	}

	flat := config.FlattenSections(t.b.cfg.Structure.Sections)
	defined := make(map[string]config.FlatSection, len(flat))
	children := make(map[string][]string)
	for _, f := range flat {
		defined[f.Def.ID] = f
		if f.ParentID != "" {
			children[f.ParentID] = append(children[f.ParentID], f.Def.ID)
		}
	}

	var hasContent func(id string) bool
	hasContent = func(id string) bool {
		if s, ok := t.sections[id]; ok && !s.node.IsEmpty() {
			return true
		}
		for _, c := range children[id] {
			if hasContent(c) {
				return true
			}
		}
		return false
	}

	keep := make(map[string]bool)
	for _, f := range flat {
		id := f.Def.ID
		if hasContent(id) {
			keep[id] = true
			continue
		}
		kind := IssueUnusedSection
		if len(f.Def.Routes) > 0 || targeted[id] {
			kind = IssueEmptySection
		}
		if err := ReportIssue(newIssue(kind, id), policy, t.b.logger); err != nil {
			return err
		}
		if policy == config.SeverityIgnore && kind == IssueEmptySection {
			keep[id] = true
		}
	}

	for _, f := range flat {
		if !keep[f.Def.ID] {
			continue
		}
		node := t.section(f.Def.ID).node
		if f.ParentID != "" && keep[f.ParentID] {
			parent := t.section(f.ParentID).node
			parent.SubCategories = append(parent.SubCategories, node)
			continue
		}
		root.SubCategories = append(root.SubCategories, node)
	}

	for _, id := range t.order {
		if _, ok := defined[id]; ok {
			continue
		}
		node := t.sections[id].node
		if node.IsEmpty() {
			t.b.logger.Debug("Dropping empty section", logfields.Section(id))
			continue
		}
		root.SubCategories = append(root.SubCategories, node)
	}
	return nil
}

func (t *treeState) sectionIncludeOrder(id string) []string {
	if _, ok := t.b.engine.Section(id); ok {
		return t.b.engine.SectionIncludeOrder(id)
	}
	return t.b.engine.IncludeOrder("/" + id)
}

func (t *treeState) sortNode(node *model.TreeNode, includeOrder []string, cmp *comparator) {
	set, err := routeglob.CompileSet(includeOrder)
	if err != nil {
		t.b.logger.Warn("Ignoring invalid includeOrder",
			logfields.Path(node.RelPath), logfields.Error(err))
		set = nil
	}
	rank := func(p string) int {
		if len(set) == 0 {
			return 0
		}
		if i := set.Index(p); i >= 0 {
			return i
		}
		return len(set)
	}

	sort.SliceStable(node.Docs, func(i, j int) bool {
		a, b := node.Docs[i], node.Docs[j]
		ra, rb := rank(docPath(a)), rank(docPath(b))
		if ra != rb {
			return ra < rb
		}
		return cmp.less(a.Title, b.Title)
	})
	sort.SliceStable(node.SubCategories, func(i, j int) bool {
		a, b := node.SubCategories[i], node.SubCategories[j]
		ra, rb := rank(a.RelPath), rank(b.RelPath)
		if ra != rb {
			return ra < rb
		}
		switch {
		case a.Position != nil && b.Position != nil && *a.Position != *b.Position:
			return *a.Position < *b.Position
		case a.Position != nil && b.Position == nil:
			return true
		case a.Position == nil && b.Position != nil:
			return false
		}
		return cmp.less(a.Name, b.Name)
	})
}

func docPath(d model.DocInfo) string {
	return paths.StripTrailingSlash(paths.EnsureLeadingSlash(d.RoutePath))
}

// comparator orders display names the way a reader expects: case and
// accents are secondary to the letters themselves.
type comparator struct {
	c *collate.Collator
}

func newComparator() *comparator {
	return &comparator{c: collate.New(language.English)}
}

func (c *comparator) less(a, b string) bool {
	if r := c.c.CompareString(a, b); r != 0 {
		return r < 0
	}
	return a < b
}
