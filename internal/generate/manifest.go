package generate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
)

// CopyContentFileName returns the copy-content data file name for a build
// started at ts.
func CopyContentFileName(ts time.Time) string {
	return fmt.Sprintf("copy-content-data.%d.json", ts.UnixMilli())
}

// WriteCopyContentData writes the route to Markdown-availability map read by
// the copy-page UI. It returns the written path.
func WriteCopyContentData(routes []model.CachedRouteInfo, outDir string, ts time.Time) (string, error) {
	data := make(map[string]bool, len(routes))
	for _, r := range routes {
		data[r.Path] = r.MarkdownFile != ""
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "encode copy content data").Build()
	}

	p := filepath.Join(outDir, CopyContentFileName(ts))
	if err := os.WriteFile(p, out, 0o644); err != nil { // #nosec G306 -- served as a static asset
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write copy content data").
			WithContext(ferrors.CtxFilePath, p).
			Build()
	}
	return p, nil
}
