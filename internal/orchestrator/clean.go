package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/generate"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
)

// CleanResult reports what Clean removed.
type CleanResult struct {
	RemovedFiles int
	CacheCleared bool
}

// Clean removes the generated Markdown files and index outputs. The cache
// keeps its routes with the Markdown references cleared, unless clearCache
// removes the cache directory altogether.
func (o *Orchestrator) Clean(ctx context.Context, clearCache bool) (CleanResult, error) {
	var res CleanResult
	dirs := o.Dirs()
	store := cache.NewStore(dirs.GeneratedFilesDir).WithLogger(o.logger)
	lock, err := cache.AcquireLock(store.Dir())
	if err != nil {
		return res, err
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			o.logger.Warn("Failed to release cache lock", logfields.Error(rerr))
		}
	}()

	schema := store.Load()
	for i, r := range schema.Routes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if r.MarkdownFile == "" {
			continue
		}
		removed, err := removeFile(filepath.Join(dirs.OutDir, filepath.FromSlash(r.MarkdownFile)))
		if err != nil {
			return res, err
		}
		if removed {
			res.RemovedFiles++
			o.logger.Debug("Removed markdown file", logfields.MarkdownFile(r.MarkdownFile))
		}
		schema.Routes[i].MarkdownFile = ""
	}

	for _, name := range []string{generate.LlmsTxtFile, generate.LlmsFullTxtFile} {
		removed, err := removeFile(filepath.Join(dirs.OutDir, name))
		if err != nil {
			return res, err
		}
		if removed {
			res.RemovedFiles++
		}
	}

	if clearCache {
		if err := store.Clear(); err != nil {
			return res, err
		}
		res.CacheCleared = true
	} else if len(schema.Routes) > 0 {
		if err := store.Save(schema); err != nil {
			return res, err
		}
	}
	o.logger.Info("Cleaned generated files", logfields.Count(res.RemovedFiles), slog.Bool("cache_cleared", res.CacheCleared))
	return res, nil
}

func removeFile(p string) (bool, error) {
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove generated file").
			WithContext(ferrors.CtxFilePath, p).
			Build()
	}
	return true, nil
}
