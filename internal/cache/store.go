// Package cache persists per-route conversion results between runs and
// decides when they can be reused.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
	"git.home.luguber.info/inful/llmstxt/internal/model"
)

const (
	// DirName is the cache directory below the generated-files directory.
	DirName  = "llmstxt"
	FileName = "cache.json"
	tmpStem  = ".tmp-" + FileName + "-"
)

// Store reads and writes the cache file:
//
//	<generatedFilesDir>/
//	  llmstxt/
//	    cache.json
//	    cache.lock
type Store struct {
	dir    string
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewStore returns a store rooted at <generatedFilesDir>/llmstxt. Nothing is
// created until the first Save.
func NewStore(generatedFilesDir string) *Store {
	return &Store{dir: filepath.Join(generatedFilesDir, DirName), logger: slog.Default()}
}

// WithLogger sets the logger used for recoverable cache problems.
func (s *Store) WithLogger(l *slog.Logger) *Store {
	if l != nil {
		s.logger = l
	}
	return s
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the cache file path.
func (s *Store) Path() string { return filepath.Join(s.dir, FileName) }

// Load returns the persisted cache. A missing file yields an empty cache; an
// unreadable or malformed one is deleted and also yields an empty cache.
func (s *Store) Load() model.CacheSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.Path()
	// #nosec G304 - path is derived from the configured generated-files dir
	data, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read cache, starting fresh", logfields.Path(p), logfields.Error(err))
		}
		return model.EmptyCache()
	}

	schema, err := decode(data)
	if err != nil {
		s.logger.Warn("Cache file is corrupt, discarding it", logfields.Path(p), logfields.Error(err))
		if rmErr := os.Remove(p); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("Failed to remove corrupt cache", logfields.Path(p), logfields.Error(rmErr))
		}
		return model.EmptyCache()
	}
	return schema
}

// Peek reads the persisted cache without discarding a corrupt file. Missing
// and unreadable caches both yield an empty cache.
func (s *Store) Peek() model.CacheSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// #nosec G304 - path is derived from the configured generated-files dir
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return model.EmptyCache()
	}
	schema, err := decode(data)
	if err != nil {
		return model.EmptyCache()
	}
	return schema
}

// wireSchema distinguishes a missing routes array from an empty one.
type wireSchema struct {
	PluginVersion *string                  `json:"pluginVersion"`
	ConfigHash    *string                  `json:"configHash"`
	Routes        *[]model.CachedRouteInfo `json:"routes"`
}

func decode(data []byte) (model.CacheSchema, error) {
	var w wireSchema
	if err := json.Unmarshal(data, &w); err != nil {
		return model.CacheSchema{}, err
	}
	if w.PluginVersion == nil || w.ConfigHash == nil || w.Routes == nil {
		return model.CacheSchema{}, errors.New("cache schema is missing required fields")
	}
	for i, r := range *w.Routes {
		if r.Path == "" {
			return model.CacheSchema{}, fmt.Errorf("cache route %d has no path", i)
		}
	}
	return model.CacheSchema{PluginVersion: *w.PluginVersion, ConfigHash: *w.ConfigHash, Routes: *w.Routes}, nil
}

// Save writes schema atomically: a temp file in the cache directory is
// renamed over the target. The temp file never survives a failure.
func (s *Store) Save(schema model.CacheSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schema.Routes == nil {
		schema.Routes = []model.CachedRouteInfo{}
	}
	target := s.Path()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return saveError(err, "encode cache", target)
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return saveError(err, "create cache directory", target)
	}

	tmp := filepath.Join(s.dir, fmt.Sprintf("%s%d", tmpStem, time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return saveError(err, "write cache", target)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return saveError(err, "replace cache", target)
	}
	s.logger.Debug("Saved cache", logfields.Path(target), logfields.Count(len(schema.Routes)))
	return nil
}

// Clear removes the whole cache directory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryCache, "clear cache directory").
			WithContext(ferrors.CtxCachePath, s.dir).
			Build()
	}
	return nil
}

func saveError(err error, msg, target string) error {
	return ferrors.WrapError(err, ferrors.CategoryCache, msg).
		Fatal().
		WithContext(ferrors.CtxCachePath, target).
		Build()
}
