package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
)

// LockName is the lock file created for the duration of a run.
const LockName = "cache.lock"

// Lock marks a run in progress on a cache directory.
type Lock struct {
	path string
}

// AcquireLock creates the lock file exclusively. A held lock is a cache error;
// a stale lock left by a crashed run must be removed by hand.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryCache, "create cache directory").
			WithContext(ferrors.CtxCachePath, dir).
			Build()
	}
	p := filepath.Join(dir, LockName)
	// #nosec G304 - lock path is derived from the cache directory
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		msg := "acquire cache lock"
		if errors.Is(err, os.ErrExist) {
			msg = "another run holds the cache lock"
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryCache, msg).
			Fatal().
			WithContext(ferrors.CtxCachePath, p).
			Build()
	}
	_, _ = fmt.Fprintf(f, "pid=%d started=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	_ = f.Close()
	return &Lock{path: p}, nil
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryCache, "release cache lock").
			WithContext(ferrors.CtxCachePath, l.path).
			Build()
	}
	return nil
}
