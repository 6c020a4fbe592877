package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/llmstxt/internal/model"
)

// HashContent returns the sha256 hex digest of data.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the sha256 hex digest of the file at p.
func HashFile(p string) (string, error) {
	// #nosec G304 - callers pass paths below the build output directory
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return HashContent(data), nil
}

// ValidationOptions locates the files a cache entry refers to.
type ValidationOptions struct {
	OutDir              string
	EnableMarkdownFiles bool
}

type entryCheck func(model.CachedRouteInfo, ValidationOptions) bool

// entryChecks run in order; the first failure short-circuits.
var entryChecks = []entryCheck{
	hasRequiredFields,
	htmlFileExists,
	contentHashMatches,
	markdownStateMatches,
}

// IsEntryValid reports whether a cached entry can be reused without
// reconverting its page.
func IsEntryValid(entry model.CachedRouteInfo, opts ValidationOptions) (valid bool) {
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	for _, check := range entryChecks {
		if !check(entry, opts) {
			return false
		}
	}
	return true
}

func hasRequiredFields(e model.CachedRouteInfo, _ ValidationOptions) bool {
	return e.HTMLPath != "" && e.Hash != ""
}

func htmlFileExists(e model.CachedRouteInfo, opts ValidationOptions) bool {
	return fileExists(filepath.Join(opts.OutDir, filepath.FromSlash(e.HTMLPath)))
}

func contentHashMatches(e model.CachedRouteInfo, opts ValidationOptions) bool {
	h, err := HashFile(filepath.Join(opts.OutDir, filepath.FromSlash(e.HTMLPath)))
	return err == nil && h == e.Hash
}

func markdownStateMatches(e model.CachedRouteInfo, opts ValidationOptions) bool {
	if !opts.EnableMarkdownFiles {
		return true
	}
	if e.MarkdownFile == "" {
		return false
	}
	return fileExists(filepath.Join(opts.OutDir, filepath.FromSlash(e.MarkdownFile)))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
