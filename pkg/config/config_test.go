package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.StrategyAuto, cfg.Layout.Strategy)
	assert.Equal(t, layout.DefaultMargin, cfg.Layout.Margin)
	assert.Equal(t, "light", cfg.Render.Theme)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[layout]
strategy = "semantic"
margin = 60
grid_size = 25

[render]
theme = "dark"
legend = true

[server]
timeout = "5s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "semantic", cfg.Layout.Strategy)
	assert.Equal(t, 60, cfg.Layout.Margin)
	assert.Equal(t, 25, cfg.Layout.GridSize)
	assert.Equal(t, layout.DefaultClearance, cfg.Layout.Clearance, "unset keys keep defaults")
	assert.Equal(t, "dark", cfg.Render.Theme)
	assert.True(t, cfg.Render.Legend)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "schematic"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schematic", "config.toml"), []byte("[render]\ntheme = \"dark\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Render.Theme)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "[layout]\nmargin = 60\nnode_spacing = 50\n")
	t.Setenv("SCHEMATIC_LAYOUT_MARGIN", "80")
	t.Setenv("SCHEMATIC_CACHE_BACKEND", "redis")
	t.Setenv("SCHEMATIC_CACHE_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("SCHEMATIC_SERVER_MAX_BODY_BYTES", "4096")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Layout.Margin)
	assert.Equal(t, 50, cfg.Layout.NodeSpacing)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodyBytes)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[layout\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[layout]\nwobble = 1\n", errors.ErrCodeInvalidConfig},
		{"strategy", "[layout]\nstrategy = \"spring\"\n", errors.ErrCodeInvalidStrategy},
		{"theme", "[render]\ntheme = \"neon\"\n", errors.ErrCodeInvalidTheme},
		{"backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"negative margin", "[layout]\nmargin = -1\n", errors.ErrCodeInvalidConfig},
		{"zero scale", "[render]\nscale = 0.0\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "got %v", err)
		})
	}
}

func TestLayoutOptions(t *testing.T) {
	cfg := Default()
	cfg.Layout.Margin = 24
	opts := cfg.LayoutOptions()
	assert.Equal(t, 24, opts.Margin)
	assert.Equal(t, layout.DefaultRankSpacing, opts.RankSpacing)
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "[layout]")
	assert.Contains(t, s, `theme = "light"`)
}
