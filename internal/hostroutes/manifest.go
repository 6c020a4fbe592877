// Package hostroutes reads the route manifest emitted by the host site
// build.
package hostroutes

import (
	"encoding/json"
	"os"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
)

// GeneratedIndexComponent renders auto-generated category index pages.
const GeneratedIndexComponent = "@theme/DocCategoryGeneratedIndexPage"

// Manifest is the host build's description of the site and its routes.
type Manifest struct {
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	BaseURL       string       `json:"baseUrl"`
	TrailingSlash *bool        `json:"trailingSlash"`
	Routes        []RouteEntry `json:"routes"`
}

// RouteEntry is one possibly nested route of the manifest.
type RouteEntry struct {
	Path      string           `json:"path"`
	Component string           `json:"component"`
	Plugin    *model.PluginRef `json:"plugin"`
	Props     *RouteProps      `json:"props"`
	Routes    []RouteEntry     `json:"routes"`
}

// RouteProps carries the route props the pipeline looks at.
type RouteProps struct {
	Version *VersionProps `json:"version"`
}

// VersionProps marks docs versions; only the latest has IsLast set.
type VersionProps struct {
	IsLast *bool `json:"isLast"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	// #nosec G304 - the manifest path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read route manifest").
			WithContext(ferrors.CtxFilePath, path).
			Build()
	}
	return Parse(data)
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid route manifest").Fatal().Build()
	}
	return &m, nil
}

// Site returns the site metadata of the manifest.
func (m *Manifest) Site() model.SiteInfo {
	return model.SiteInfo{
		Title:         m.Title,
		URL:           m.URL,
		BaseURL:       m.BaseURL,
		TrailingSlash: m.TrailingSlash,
	}
}

// Flatten returns the leaf routes in manifest order. Plugin and version
// information flows down from parents that carry it; the first route with a
// given path wins.
func (m *Manifest) Flatten() []model.Route {
	var out []model.Route
	seen := make(map[string]bool)
	var walk func(list []RouteEntry, plugin *model.PluginRef, versioned bool)
	walk = func(list []RouteEntry, plugin *model.PluginRef, versioned bool) {
		for _, e := range list {
			p, v := plugin, versioned
			if e.Plugin != nil && e.Plugin.Name != "" {
				p = e.Plugin
			}
			if e.Props != nil && e.Props.Version != nil && e.Props.Version.IsLast != nil {
				v = !*e.Props.Version.IsLast
			}
			if len(e.Routes) > 0 {
				walk(e.Routes, p, v)
				continue
			}
			if e.Path == "" || seen[e.Path] {
				continue
			}
			seen[e.Path] = true
			r := model.Route{
				Path:             e.Path,
				Component:        e.Component,
				IsVersioned:      v,
				IsGeneratedIndex: e.Component == GeneratedIndexComponent,
			}
			if p != nil {
				ref := *p
				r.Plugin = &ref
			}
			out = append(out, r)
		}
	}
	walk(m.Routes, nil, false)
	return out
}
