package config

import (
	"fmt"
	"os"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

const exampleConfig = `# llmstxt configuration
site:
  title: My Docs
  url: https://docs.example.com
  baseUrl: /

paths:
  siteDir: .
  outDir: build
  generatedFilesDir: .docusaurus

onSectionError: warn
onRouteError: warn

generate:
  enableMarkdownFiles: true
  enableLlmsFullTxt: false
  relativePaths: true

include:
  includeBlog: false
  includePages: false
  excludeRoutes:
    - /search
    - /tags/**

structure:
  siteTitle: ""
  enableDescriptions: true
  sections:
    - id: getting-started
      name: Getting Started
      position: 1
      routes:
        - route: /docs/intro/**

processing:
  routeRules:
    - route: /docs/api/**
      depth: 2
      categoryName: API Reference
`

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext(ferrors.CtxFilePath, path).
			Build()
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write configuration file").
			WithContext(ferrors.CtxFilePath, path).
			Build()
	}
	return nil
}
