package config

import "git.home.luguber.info/inful/llmstxt/internal/model"

// Severity selects how a recoverable problem is reported.
type Severity string

const (
	SeverityIgnore Severity = "ignore"
	SeverityLog    Severity = "log"
	SeverityWarn   Severity = "warn"
	SeverityThrow  Severity = "throw"
)

// Config is the complete, immutable configuration of one run.
type Config struct {
	Site  model.SiteInfo `yaml:"site"`
	Paths PathsConfig    `yaml:"paths"`

	LogLevel       int      `yaml:"logLevel"`
	OnSectionError Severity `yaml:"onSectionError"`
	OnRouteError   Severity `yaml:"onRouteError"`
	RunOnPostBuild bool     `yaml:"runOnPostBuild"`
	Concurrency    int      `yaml:"concurrency"`

	Generate   GenerateConfig   `yaml:"generate"`
	Include    IncludeConfig    `yaml:"include"`
	Structure  StructureConfig  `yaml:"structure"`
	Processing ProcessingConfig `yaml:"processing"`
	UI         UIConfig         `yaml:"ui"`
}

// PathsConfig locates the site, its build output and the generated-files directory.
type PathsConfig struct {
	SiteDir           string `yaml:"siteDir"`
	OutDir            string `yaml:"outDir"`
	GeneratedFilesDir string `yaml:"generatedFilesDir"`
}

// GenerateConfig controls which outputs are produced.
type GenerateConfig struct {
	EnableMarkdownFiles bool `yaml:"enableMarkdownFiles" json:"enableMarkdownFiles"`
	EnableLlmsFullTxt   bool `yaml:"enableLlmsFullTxt" json:"enableLlmsFullTxt"`
	RelativePaths       bool `yaml:"relativePaths" json:"relativePaths"`
}

// IncludeConfig holds filter-only options. None of them affect the config hash.
type IncludeConfig struct {
	IncludeBlog           bool     `yaml:"includeBlog"`
	IncludePages          bool     `yaml:"includePages"`
	IncludeDocs           bool     `yaml:"includeDocs"`
	IncludeVersionedDocs  bool     `yaml:"includeVersionedDocs"`
	IncludeGeneratedIndex bool     `yaml:"includeGeneratedIndex"`
	ExcludeRoutes         []string `yaml:"excludeRoutes"`
}

// StructureConfig shapes the rendered index.
type StructureConfig struct {
	Sections           []SectionDefinition `yaml:"sections" json:"sections"`
	SiteTitle          string              `yaml:"siteTitle" json:"siteTitle"`
	SiteDescription    string              `yaml:"siteDescription" json:"siteDescription"`
	EnableDescriptions bool                `yaml:"enableDescriptions" json:"enableDescriptions"`
	OptionalLinks      []OptionalLink      `yaml:"optionalLinks" json:"optionalLinks"`
}

// SectionDefinition is a user-declared group of documents.
type SectionDefinition struct {
	ID          string              `yaml:"id" json:"id"`
	Name        string              `yaml:"name" json:"name"`
	Description string              `yaml:"description" json:"description,omitempty"`
	Position    *int                `yaml:"position" json:"position,omitempty"`
	Routes      []RouteRule         `yaml:"routes" json:"routes,omitempty"`
	Subsections []SectionDefinition `yaml:"subsections" json:"subsections,omitempty"`
}

// RouteRule overrides processing for paths matching a glob.
type RouteRule struct {
	Route            string   `yaml:"route" json:"route"`
	ContentSelectors []string `yaml:"contentSelectors" json:"contentSelectors,omitempty"`
	Depth            int      `yaml:"depth" json:"depth,omitempty"`
	CategoryName     string   `yaml:"categoryName" json:"categoryName,omitempty"`
	IncludeOrder     []string `yaml:"includeOrder" json:"includeOrder,omitempty"`
}

// OptionalLink is rendered verbatim under the "Optional" heading.
type OptionalLink struct {
	Title       string `yaml:"title" json:"title"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// ProcessingConfig controls HTML extraction and conversion.
type ProcessingConfig struct {
	ContentSelectors []string         `yaml:"contentSelectors" json:"contentSelectors"`
	RouteRules       []RouteRule      `yaml:"routeRules" json:"routeRules,omitempty"`
	Attachments      []AttachmentFile `yaml:"attachments" json:"attachments,omitempty"`
	GFM              bool             `yaml:"gfm" json:"gfm"`
	ProcessTables    bool             `yaml:"processTables" json:"processTables"`
	Stages           StagesConfig     `yaml:"stages" json:"stages"`
}

// StagesConfig lists named user stages inserted around the built-in ones.
type StagesConfig struct {
	HTMLBefore     []StageRef `yaml:"htmlBefore" json:"htmlBefore,omitempty"`
	HTMLAfter      []StageRef `yaml:"htmlAfter" json:"htmlAfter,omitempty"`
	MarkdownBefore []StageRef `yaml:"markdownBefore" json:"markdownBefore,omitempty"`
	MarkdownAfter  []StageRef `yaml:"markdownAfter" json:"markdownAfter,omitempty"`
}

// StageRef names a registered stage and its options.
type StageRef struct {
	Name    string         `yaml:"name" json:"name"`
	Options map[string]any `yaml:"options" json:"options,omitempty"`
}

// AttachmentFile is an extra local file listed in the outputs.
type AttachmentFile struct {
	Source           string `yaml:"source" json:"source"`
	Title            string `yaml:"title" json:"title"`
	Description      string `yaml:"description" json:"description,omitempty"`
	SectionID        string `yaml:"sectionId" json:"sectionId,omitempty"`
	IncludeInFullTxt *bool  `yaml:"includeInFullTxt" json:"includeInFullTxt,omitempty"`
}

// InFullTxt reports whether the attachment belongs in llms-full.txt.
func (a AttachmentFile) InFullTxt() bool {
	return a.IncludeInFullTxt == nil || *a.IncludeInFullTxt
}

// UIConfig configures data consumed by the copy-page UI.
type UIConfig struct {
	CopyPageContent bool `yaml:"copyPageContent" json:"copyPageContent"`
}

// TrailingSlash reports the site's trailing-slash mode; unset means on.
func (c *Config) TrailingSlash() bool {
	return c.Site.TrailingSlash == nil || *c.Site.TrailingSlash
}
