// Package routeglob compiles and caches route path globs. '/' separates
// segments, '*' stays within a segment and '**' crosses segments.
package routeglob

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Pattern is a compiled route glob.
type Pattern struct {
	source string
	globs  []glob.Glob
}

// Source returns the pattern as configured.
func (p *Pattern) Source() string { return p.source }

// Base returns the literal prefix of the pattern with a trailing "/**"
// removed, e.g. "/docs/api/**" -> "/docs/api".
func (p *Pattern) Base() string { return Base(p.source) }

// Match reports whether routePath (leading slash ensured) matches.
func (p *Pattern) Match(routePath string) bool {
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}
	for _, g := range p.globs {
		if g.Match(routePath) {
			return true
		}
	}
	return false
}

// Base strips a trailing "/**" from a pattern.
func Base(pattern string) string {
	b := strings.TrimSuffix(pattern, "/**")
	if b == "" {
		return "/"
	}
	return b
}

var cache = struct {
	sync.RWMutex
	m map[string]*Pattern
}{m: make(map[string]*Pattern)}

// Get compiles pattern, reusing earlier compilations.
func Get(pattern string) (*Pattern, error) {
	cache.RLock()
	p, ok := cache.m[pattern]
	cache.RUnlock()
	if ok {
		return p, nil
	}

	p, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	cache.Lock()
	cache.m[pattern] = p
	cache.Unlock()
	return p, nil
}

func compile(pattern string) (*Pattern, error) {
	norm := pattern
	if !strings.HasPrefix(norm, "/") && !strings.HasPrefix(norm, "*") {
		norm = "/" + norm
	}
	g, err := glob.Compile(norm, '/')
	if err != nil {
		return nil, err
	}
	p := &Pattern{source: pattern, globs: []glob.Glob{g}}
	// "/docs/**" also matches "/docs" itself.
	if strings.HasSuffix(norm, "/**") {
		base := strings.TrimSuffix(norm, "/**")
		if base == "" {
			base = "/"
		}
		bg, err := glob.Compile(base, '/')
		if err != nil {
			return nil, err
		}
		p.globs = append(p.globs, bg)
	}
	return p, nil
}

// Set is an ordered list of patterns.
type Set []*Pattern

// CompileSet compiles every pattern, failing on the first invalid one.
func CompileSet(patterns []string) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, pat := range patterns {
		p, err := Get(pat)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// MatchAny reports whether any pattern matches routePath.
func (s Set) MatchAny(routePath string) bool {
	for _, p := range s {
		if p.Match(routePath) {
			return true
		}
	}
	return false
}

// Index returns the position of the first matching pattern, or -1.
func (s Set) Index(routePath string) int {
	for i, p := range s {
		if p.Match(routePath) {
			return i
		}
	}
	return -1
}
