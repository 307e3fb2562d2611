package compile

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/errors"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func newProject(t *testing.T, rels ...string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	cfg := config.New()
	cfg.Root = root
	return cfg
}

func TestCompile(t *testing.T) {
	cfg := newProject(t, "index.tsx", "about.tsx", "blog/[slug].tsx", "blog/index.tsx")
	cfg.NotFound = "./src/pages/404.tsx"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	res, err := New(cfg, WithLogger(logger), WithMetrics(m)).Compile(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Files, 4)
	require.Equal(t, 5, res.Routes())

	last := res.Tree[len(res.Tree)-1]
	require.Equal(t, routetree.CatchAllPath, last.Path)
	require.Equal(t, "./src/pages/404.tsx", last.ImportPath)

	src := res.Module.String()
	require.Contains(t, src, `React.lazy(() => import("./src/pages/404.tsx"))`)
	require.Contains(t, src, `path: "blog"`)
	require.Len(t, res.Module.Bindings, 5)

	require.Equal(t, float64(1), counterValue(t, m.compilations.WithLabelValues("success")))
	require.Equal(t, float64(0), counterValue(t, m.compilations.WithLabelValues("error")))
	require.Equal(t, float64(5), gaugeValue(t, m.routes))
	require.Equal(t, uint64(1), histogramCount(t, m.duration))

	require.Contains(t, logs.String(), "compiled routes")
	require.Contains(t, logs.String(), "routes=5")
}

func TestCompileIsRepeatable(t *testing.T) {
	cfg := newProject(t, "a.tsx", "b/index.tsx")
	c := New(cfg)

	first, err := c.Compile(context.Background())
	require.NoError(t, err)
	second, err := c.Compile(context.Background())
	require.NoError(t, err)

	require.Equal(t, first.Module.Source, second.Module.Source)
	require.NotSame(t, first.Tree[0], second.Tree[0])
}

func TestCompileAmbiguousLeaf(t *testing.T) {
	cfg := newProject(t, "about.jsx", "about.tsx")
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	_, err := New(cfg, WithMetrics(m)).Compile(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, routetree.ErrAmbiguousLeaf)

	var fe *errors.FilerouterError
	require.True(t, stderrors.As(err, &fe))
	require.Equal(t, "E102", fe.Code)

	require.Equal(t, float64(1), counterValue(t, m.compilations.WithLabelValues("error")))
	require.Equal(t, float64(0), gaugeValue(t, m.routes))
}

func TestCompileLastWins(t *testing.T) {
	cfg := newProject(t, "about.jsx", "about.tsx")
	cfg.Duplicates = string(routetree.LastWins)

	res, err := New(cfg).Compile(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Tree, 1)
	require.True(t, strings.HasSuffix(res.Tree[0].ImportPath, "about.tsx"))
}

func TestCompileMissingRoot(t *testing.T) {
	cfg := config.New()
	cfg.Root = filepath.Join(t.TempDir(), "missing")

	_, err := New(cfg).Compile(context.Background())
	var fe *errors.FilerouterError
	require.True(t, stderrors.As(err, &fe))
	require.Equal(t, "E110", fe.Code)
}

func TestCompileFiles(t *testing.T) {
	cfg := config.New()
	cfg.Root = "/absolute/path/src/pages"

	res, err := New(cfg).CompileFiles(context.Background(), []string{
		"/absolute/path/src/pages/index.tsx",
		"/absolute/path/src/pages/users/[id].tsx",
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Routes())

	_, err = New(cfg).CompileFiles(context.Background(), []string{"/elsewhere/x.tsx"})
	require.ErrorIs(t, err, routetree.ErrPathOutsideRoot)
}

func TestCompileCanceled(t *testing.T) {
	cfg := newProject(t, "a.tsx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg).Compile(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.observe(0, 3, nil)
}
