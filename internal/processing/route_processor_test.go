package processing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmstxt/internal/cache"
	"git.home.luguber.info/inful/llmstxt/internal/config"
	ferrors "git.home.luguber.info/inful/llmstxt/internal/foundation/errors"
	"git.home.luguber.info/inful/llmstxt/internal/model"
	"git.home.luguber.info/inful/llmstxt/internal/routerules"
	"git.home.luguber.info/inful/llmstxt/internal/transform"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakePages struct {
	mu       sync.Mutex
	calls    []string
	fail     map[string]error
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakePages) Process(ctx context.Context, routePath, htmlPath string, _ []string) (transform.Processed, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, routePath)
	f.mu.Unlock()

	if err := f.fail[routePath]; err != nil {
		return transform.Processed{}, err
	}
	return transform.Processed{
		Doc:  model.DocInfo{RoutePath: routePath, HTMLPath: htmlPath, Title: "T " + routePath, MarkdownFile: htmlPath + ".md"},
		Hash: "h-" + routePath,
	}, ctx.Err()
}

func newProcessor(t *testing.T, cfg config.Config, pages PageProcessor, outDir string) *RouteProcessor {
	t.Helper()
	engine, err := routerules.New(&cfg)
	require.NoError(t, err)
	return NewRouteProcessor(&cfg, engine, pages, outDir).WithLogger(quiet)
}

func entriesFor(routes ...string) []model.CachedRouteInfo {
	out := make([]model.CachedRouteInfo, len(routes))
	for i, r := range routes {
		out[i] = model.CachedRouteInfo{Path: r, HTMLPath: r[1:] + "/index.html"}
	}
	return out
}

func TestRouteProcessor_KeepsInputOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Concurrency = 4
	var routes []string
	for i := range 25 {
		routes = append(routes, fmt.Sprintf("/docs/p%02d", i))
	}
	pages := &fakePages{delay: time.Millisecond}

	res, err := newProcessor(t, cfg, pages, t.TempDir()).Process(context.Background(), entriesFor(routes...), false)
	require.NoError(t, err)

	require.Len(t, res.Docs, len(routes))
	for i, d := range res.Docs {
		assert.Equal(t, routes[i], d.RoutePath)
		assert.Equal(t, "h-"+routes[i], res.Entries[i].Hash)
	}
	assert.Equal(t, len(routes), res.Stats.Processed)
	assert.LessOrEqual(t, pages.maxSeen.Load(), int32(4))
}

func TestRouteProcessor_ReusesValidCacheEntry(t *testing.T) {
	outDir := t.TempDir()
	page := []byte("<html><body><main>Hi</main></body></html>")
	require.NoError(t, os.MkdirAll(filepath.Join(outDir, "docs", "a"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "docs", "a", "index.html"), page, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "docs", "a.md"), []byte("Hi"), 0o600))

	entry := model.CachedRouteInfo{
		Path:         "/docs/a",
		HTMLPath:     "docs/a/index.html",
		Hash:         cache.HashContent(page),
		Title:        "A",
		MarkdownFile: "docs/a.md",
	}
	pages := &fakePages{}
	p := newProcessor(t, config.Default(), pages, outDir)

	res, err := p.Process(context.Background(), []model.CachedRouteInfo{entry}, true)
	require.NoError(t, err)
	assert.Empty(t, pages.calls)
	assert.Equal(t, 1, res.Stats.Cached)
	require.Len(t, res.Docs, 1)
	assert.Equal(t, "A", res.Docs[0].Title)

	// A changed page invalidates the entry.
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "docs", "a", "index.html"), []byte("changed"), 0o600))
	res, err = p.Process(context.Background(), []model.CachedRouteInfo{entry}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/a"}, pages.calls)
	assert.Equal(t, 1, res.Stats.Processed)
}

func TestRouteProcessor_CacheIgnoredForInMemoryFullText(t *testing.T) {
	cfg := config.Default()
	cfg.Generate.EnableMarkdownFiles = false
	cfg.Generate.EnableLlmsFullTxt = true
	outDir := t.TempDir()
	page := []byte("<html></html>")
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "index.html"), page, 0o600))

	entry := model.CachedRouteInfo{Path: "/", HTMLPath: "index.html", Hash: cache.HashContent(page), Title: "Home"}
	pages := &fakePages{}
	_, err := newProcessor(t, cfg, pages, outDir).Process(context.Background(), []model.CachedRouteInfo{entry}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"/"}, pages.calls)
}

func TestRouteProcessor_WarnPolicyContinues(t *testing.T) {
	pages := &fakePages{fail: map[string]error{"/docs/b": errors.New("boom")}}
	res, err := newProcessor(t, config.Default(), pages, t.TempDir()).
		Process(context.Background(), entriesFor("/docs/a", "/docs/b", "/docs/c"), false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Processed)
	assert.Equal(t, 1, res.Stats.Failed)
	require.Len(t, res.Docs, 2)
	assert.Equal(t, "/docs/a", res.Docs[0].RoutePath)
	assert.Equal(t, "/docs/c", res.Docs[1].RoutePath)
	assert.Empty(t, res.Entries[1].Hash)
}

func TestRouteProcessor_ThrowPolicyAborts(t *testing.T) {
	cfg := config.Default()
	cfg.OnRouteError = config.SeverityThrow
	pages := &fakePages{fail: map[string]error{"/docs/b": errors.New("boom")}}

	_, err := newProcessor(t, cfg, pages, t.TempDir()).
		Process(context.Background(), entriesFor("/docs/a", "/docs/b"), false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryProcessing))
	route, _ := ferrors.GetContext(err).GetString(ferrors.CtxRoute)
	assert.Equal(t, "/docs/b", route)
}

func TestRouteProcessor_SkipsEntriesWithoutHTMLPath(t *testing.T) {
	pages := &fakePages{}
	res, err := newProcessor(t, config.Default(), pages, t.TempDir()).
		Process(context.Background(), []model.CachedRouteInfo{{Path: "/x"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Skipped)
	assert.Empty(t, pages.calls)
	assert.Empty(t, res.Docs)
}

func TestRouteProcessor_ConcurrentUnmatchedRoutes(t *testing.T) {
	cfg := config.Default()
	cfg.Concurrency = 8
	var routes []string
	for i := range 64 {
		routes = append(routes, fmt.Sprintf("/area-%02d/some-page-%02d", i, i))
	}
	pages := &fakePages{}

	res, err := newProcessor(t, cfg, pages, t.TempDir()).Process(context.Background(), entriesFor(routes...), false)
	require.NoError(t, err)

	assert.Equal(t, len(routes), res.Stats.Processed)
	require.Len(t, res.Docs, len(routes))
	for i, d := range res.Docs {
		assert.Equal(t, routes[i], d.RoutePath)
	}
}
