package transform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// WriteMarkdown writes content to path, creating parent directories. A file
// whose fingerprint already matches is left alone so unchanged pages keep
// their modification time. It reports whether the file was written.
func WriteMarkdown(path, content string) (bool, error) {
	// #nosec G304 - path is derived from the build output directory
	if existing, err := os.ReadFile(path); err == nil {
		if mdfp.CalculateFingerprintFromParts("", string(existing)) == mdfp.CalculateFingerprintFromParts("", content) {
			return false, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, writeError(err, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, writeError(err, path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- served as a static asset
		return false, writeError(err, path)
	}
	return true, nil
}

func writeError(err error, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write Markdown file").
		WithContext(ferrors.CtxFilePath, path).
		Build()
}
