package config

import (
	"fmt"
	"slices"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// Validate checks the whole configuration. It runs before any processing and
// returns the first failure as a fatal classified error.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(cfg *Config) *configurationValidator {
	return &configurationValidator{config: cfg}
}

func (cv *configurationValidator) validate() error {
	steps := []func() error{
		cv.validateRun,
		cv.validateProcessing,
		cv.validateSecurity,
		cv.validateSections,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

var validSeverities = []Severity{SeverityIgnore, SeverityLog, SeverityWarn, SeverityThrow}

func (cv *configurationValidator) validateRun() error {
	c := cv.config
	if c.LogLevel < 0 || c.LogLevel > 3 {
		return ferrors.ConfigError(fmt.Sprintf("logLevel must be between 0 and 3, got %d", c.LogLevel)).Build()
	}
	for name, s := range map[string]Severity{"onSectionError": c.OnSectionError, "onRouteError": c.OnRouteError} {
		if !slices.Contains(validSeverities, s) {
			return ferrors.ConfigError(fmt.Sprintf("%s must be one of ignore, log, warn, throw; got %q", name, s)).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateProcessing() error {
	p := cv.config.Processing
	if len(p.ContentSelectors) == 0 {
		return ferrors.ConfigError("processing.contentSelectors must contain at least one selector").Build()
	}
	for _, rule := range p.RouteRules {
		if err := validateRule(rule, ""); err != nil {
			return err
		}
	}
	for _, a := range p.Attachments {
		if a.Source == "" || a.Title == "" {
			return ferrors.ConfigError("attachments require both source and title").
				WithContext(ferrors.CtxFilePath, a.Source).
				Build()
		}
	}
	return nil
}

func validateRule(rule RouteRule, sectionID string) error {
	if rule.Route == "" {
		return ferrors.ConfigError("route rules require a route pattern").
			WithContext(ferrors.CtxSectionID, sectionID).
			Build()
	}
	if rule.Depth < 0 || rule.Depth > 5 {
		return ferrors.ConfigError(fmt.Sprintf("route rule depth must be between 1 and 5, got %d", rule.Depth)).
			WithContext(ferrors.CtxRoutePattern, rule.Route).
			Build()
	}
	return nil
}
