package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// envFiles are loaded before the YAML is expanded. Variables already set in
// the process environment win.
var envFiles = []string{".env", ".env.local"}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext(ferrors.CtxFilePath, path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext(ferrors.CtxFilePath, path).
			Build()
	}
	return Parse(data)
}

// LoadOptional behaves like Load but returns the defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No configuration file, using defaults", "path", path)
		cfg := Default()
		ApplyDefaults(&cfg)
		return &cfg, nil
	}
	return Load(path)
}

// Parse builds a Config from YAML bytes. Environment references such as
// ${SITE_URL} are expanded first.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").
			Fatal().
			Build()
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Failed to load env file", "path", f, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", f)
	}
}
