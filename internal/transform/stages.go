package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// HTMLStage mutates the extracted content region before conversion.
type HTMLStage func(content *goquery.Selection, opts map[string]any) error

// MarkdownStage rewrites converted Markdown.
type MarkdownStage func(md string, opts map[string]any) (string, error)

// Registry holds the named stages a configuration may reference.
type Registry struct {
	mu       sync.RWMutex
	html     map[string]HTMLStage
	markdown map[string]MarkdownStage
}

// NewRegistry returns a registry preloaded with the built-in stages.
func NewRegistry() *Registry {
	r := &Registry{html: make(map[string]HTMLStage), markdown: make(map[string]MarkdownStage)}
	r.RegisterHTML("remove-hash-links", removeSelectors("a.hash-link"))
	r.RegisterHTML("remove-edit-links", removeSelectors(".theme-edit-this-page", ".theme-last-updated", ".theme-doc-footer-edit-meta-row"))
	r.RegisterHTML("remove-elements", removeElementsStage)
	r.RegisterMarkdown("strip-html-comments", stripHTMLComments)
	r.RegisterMarkdown("replace-text", replaceText)
	return r
}

// RegisterHTML adds or replaces an HTML stage.
func (r *Registry) RegisterHTML(name string, s HTMLStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.html[name] = s
}

// RegisterMarkdown adds or replaces a Markdown stage.
func (r *Registry) RegisterMarkdown(name string, s MarkdownStage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markdown[name] = s
}

// Names lists the registered HTML and Markdown stage names.
func (r *Registry) Names() (html, markdown []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for n := range r.html {
		html = append(html, n)
	}
	for n := range r.markdown {
		markdown = append(markdown, n)
	}
	sort.Strings(html)
	sort.Strings(markdown)
	return html, markdown
}

type boundHTMLStage struct {
	name string
	fn   HTMLStage
	opts map[string]any
}

type boundMarkdownStage struct {
	name string
	fn   MarkdownStage
	opts map[string]any
}

func (r *Registry) bindHTML(refs []config.StageRef) ([]boundHTMLStage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]boundHTMLStage, 0, len(refs))
	for _, ref := range refs {
		fn, ok := r.html[ref.Name]
		if !ok {
			return nil, unknownStage("HTML", ref.Name)
		}
		out = append(out, boundHTMLStage{name: ref.Name, fn: fn, opts: ref.Options})
	}
	return out, nil
}

func (r *Registry) bindMarkdown(refs []config.StageRef) ([]boundMarkdownStage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]boundMarkdownStage, 0, len(refs))
	for _, ref := range refs {
		fn, ok := r.markdown[ref.Name]
		if !ok {
			return nil, unknownStage("Markdown", ref.Name)
		}
		out = append(out, boundMarkdownStage{name: ref.Name, fn: fn, opts: ref.Options})
	}
	return out, nil
}

func unknownStage(kind, name string) error {
	return ferrors.ConfigError(fmt.Sprintf("unknown %s stage %q", kind, name)).
		WithContext("stage", name).
		Build()
}

func removeSelectors(selectors ...string) HTMLStage {
	joined := strings.Join(selectors, ", ")
	return func(content *goquery.Selection, _ map[string]any) error {
		content.Find(joined).Remove()
		return nil
	}
}

// removeElementsStage removes everything matching options.selectors.
func removeElementsStage(content *goquery.Selection, opts map[string]any) error {
	selectors, err := stringList(opts, "selectors")
	if err != nil {
		return err
	}
	return removeSelectors(selectors...)(content, opts)
}

var htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

func stripHTMLComments(md string, _ map[string]any) (string, error) {
	return htmlComment.ReplaceAllString(md, ""), nil
}

// replaceText replaces every options.find with options.replace.
func replaceText(md string, opts map[string]any) (string, error) {
	find, _ := opts["find"].(string)
	if find == "" {
		return "", fmt.Errorf("replace-text: option %q is required", "find")
	}
	repl, _ := opts["replace"].(string)
	return strings.ReplaceAll(md, find, repl), nil
}

func stringList(opts map[string]any, key string) ([]string, error) {
	raw, ok := opts[key]
	if !ok {
		return nil, fmt.Errorf("option %q is required", key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option %q must be a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("option %q must be a list of strings", key)
}
