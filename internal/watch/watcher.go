// Package watch regenerates the outputs when the built site or the
// configuration changes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/logfields"
)

// DefaultDebounce collapses bursts of events from one site build.
const DefaultDebounce = 500 * time.Millisecond

// RebuildFunc runs one regeneration.
type RebuildFunc func(ctx context.Context) error

// Watcher triggers a rebuild after HTML pages below its trees or one of its
// watched files change.
type Watcher struct {
	trees    []string
	files    map[string]bool
	debounce time.Duration
	rebuild  RebuildFunc
	logger   *slog.Logger
}

// New returns a watcher calling rebuild.
func New(rebuild RebuildFunc) *Watcher {
	return &Watcher{
		files:    make(map[string]bool),
		debounce: DefaultDebounce,
		rebuild:  rebuild,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// WithDebounce sets the quiet period before a rebuild.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// AddTree watches dir and every directory below it.
func (w *Watcher) AddTree(dir string) *Watcher {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	w.trees = append(w.trees, dir)
	return w
}

// AddFile watches a single file through its directory.
func (w *Watcher) AddFile(path string) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w.files[path] = true
	return w
}

// Run blocks until ctx is done. Rebuild errors are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()

	for _, t := range w.trees {
		if err := w.addDirsRecursive(fw, t); err != nil {
			return err
		}
		// The parent reports a tree root that is deleted and recreated,
		// as a clean site build does.
		if parent := filepath.Dir(t); parent != t {
			if err := fw.Add(parent); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(parent), logfields.Error(err))
			}
		}
	}
	for f := range w.files {
		dir := filepath.Dir(f)
		if err := fw.Add(dir); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "watch directory").
				WithContext(ferrors.CtxFilePath, dir).
				Build()
		}
	}

	rebuildReq, trigger, stop := w.debouncer()
	defer stop()

	w.logger.Info("Watching for changes", logfields.Count(len(w.trees)+len(w.files)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && w.inTree(ev.Name) {
					_ = w.addDirsRecursive(fw, ev.Name)
					trigger()
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !w.Relevant(ev.Name) {
				continue
			}
			w.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			w.logger.Info("Change detected, regenerating")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("Regeneration failed", logfields.Error(err))
			}
		}
	}
}

// Relevant reports whether a change to path should trigger a rebuild: a
// watched file, or an HTML page below a watched tree.
func (w *Watcher) Relevant(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if w.files[path] {
		return true
	}
	if shouldIgnore(path) || !w.inTree(path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

func (w *Watcher) inTree(path string) bool {
	for _, t := range w.trees {
		if path == t || strings.HasPrefix(path, t+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) debouncer() (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "watch directory").
			WithContext(ferrors.CtxFilePath, root).
			Build()
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnore skips hidden, swap and temp files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
