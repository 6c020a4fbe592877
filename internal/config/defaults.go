package config

import (
	"runtime"
	"strings"

	"git.home.luguber.info/inful/llmstxt/internal/model"
)

const (
	DefaultConcurrency = 10
	DefaultLogLevel    = 1
)

// DefaultContentSelectors is tried in order when no rule overrides it.
var DefaultContentSelectors = []string{
	".theme-doc-markdown",
	"main .container .col",
	"main .theme-doc-wrapper",
	"article",
	"main .container",
	"main",
}

// Default returns a configuration with every default applied. Load unmarshals
// user YAML on top of it, so omitted keys keep these values.
func Default() Config {
	return Config{
		Site:           model.SiteInfo{BaseURL: "/"},
		Paths:          PathsConfig{SiteDir: ".", OutDir: "build", GeneratedFilesDir: ".docusaurus"},
		LogLevel:       DefaultLogLevel,
		OnSectionError: SeverityWarn,
		OnRouteError:   SeverityWarn,
		RunOnPostBuild: true,
		Concurrency:    DefaultConcurrency,
		Generate: GenerateConfig{
			EnableMarkdownFiles: true,
			RelativePaths:       true,
		},
		Include: IncludeConfig{
			IncludeDocs:           true,
			IncludeVersionedDocs:  true,
			IncludeGeneratedIndex: true,
		},
		Structure: StructureConfig{EnableDescriptions: true},
		Processing: ProcessingConfig{
			ContentSelectors: append([]string(nil), DefaultContentSelectors...),
			GFM:              true,
			ProcessTables:    true,
		},
		UI: UIConfig{CopyPageContent: true},
	}
}

// DefaultApplier fixes up one configuration domain after unmarshalling.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaultApplier struct{}

func (siteDefaultApplier) Domain() string { return "site" }

func (siteDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "/"
	}
	if !strings.HasSuffix(cfg.Site.BaseURL, "/") {
		cfg.Site.BaseURL += "/"
	}
	cfg.Site.URL = strings.TrimSuffix(cfg.Site.URL, "/")
}

type runDefaultApplier struct{}

func (runDefaultApplier) Domain() string { return "run" }

func (runDefaultApplier) ApplyDefaults(cfg *Config) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = min(DefaultConcurrency, max(2, runtime.NumCPU()*2))
	}
	cfg.OnSectionError = normalizeSeverity(cfg.OnSectionError)
	cfg.OnRouteError = normalizeSeverity(cfg.OnRouteError)
}

type pathsDefaultApplier struct{}

func (pathsDefaultApplier) Domain() string { return "paths" }

func (pathsDefaultApplier) ApplyDefaults(cfg *Config) {
	d := Default().Paths
	if cfg.Paths.SiteDir == "" {
		cfg.Paths.SiteDir = d.SiteDir
	}
	if cfg.Paths.OutDir == "" {
		cfg.Paths.OutDir = d.OutDir
	}
	if cfg.Paths.GeneratedFilesDir == "" {
		cfg.Paths.GeneratedFilesDir = d.GeneratedFilesDir
	}
}

// ApplyDefaults runs every domain applier in order.
func ApplyDefaults(cfg *Config) {
	for _, a := range []DefaultApplier{siteDefaultApplier{}, runDefaultApplier{}, pathsDefaultApplier{}} {
		a.ApplyDefaults(cfg)
	}
}

func normalizeSeverity(s Severity) Severity {
	v := Severity(strings.ToLower(strings.TrimSpace(string(s))))
	if v == "" {
		return SeverityWarn
	}
	return v
}
