// Package config loads schematic settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/schematic/config.toml
//  3. environment variables prefixed with SCHEMATIC_, for example
//     SCHEMATIC_LAYOUT_MARGIN=60 or SCHEMATIC_CACHE_BACKEND=redis
//
// Command-line flags are applied on top by the CLI.
//
// Example config.toml:
//
//	[layout]
//	strategy = "semantic"
//	margin = 40
//
//	[render]
//	theme = "dark"
//	legend = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "SCHEMATIC"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds every setting.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig selects the layout strategy and its spacing.
type LayoutConfig struct {
	// Strategy is auto, semantic, rank or fixed.
	Strategy    string `toml:"strategy"`
	Margin      int    `toml:"margin"`
	Clearance   int    `toml:"clearance"`
	NodeSpacing int    `toml:"node_spacing" split_words:"true"`
	RankSpacing int    `toml:"rank_spacing" split_words:"true"`
	GridSize    int    `toml:"grid_size" split_words:"true"`
}

// RenderConfig controls output appearance.
type RenderConfig struct {
	Theme  string  `toml:"theme"`
	Legend bool    `toml:"legend"`
	Scale  float64 `toml:"scale"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" split_words:"true"`
	// Prefix scopes every key, so several deployments can share one Redis.
	Prefix string        `toml:"prefix"`
	TTL    time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes" split_words:"true"`
	Timeout      time.Duration `toml:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Strategy:    layout.StrategyAuto,
			Margin:      layout.DefaultMargin,
			Clearance:   layout.DefaultClearance,
			NodeSpacing: layout.DefaultNodeSpacing,
			RankSpacing: layout.DefaultRankSpacing,
			GridSize:    layout.DefaultGridSize,
		},
		Render: RenderConfig{Theme: "light", Scale: 2},
		Cache:  CacheConfig{Backend: CacheFile, TTL: 24 * time.Hour},
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20, Timeout: 30 * time.Second},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schematic", "config.toml"), nil
}

// DefaultCacheDir returns the default file cache location.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schematic"), nil
}

// Load reads the config file at path and overlays the environment. An empty
// path reads the default location, which may be missing; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		err := decodeFile(path, &cfg)
		switch {
		case err == nil:
		case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		case stderrors.Is(err, fs.ErrNotExist):
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		default:
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	if err := errors.ValidateStrategy(c.Layout.Strategy); err != nil {
		return err
	}
	if err := errors.ValidateTheme(c.Render.Theme); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
	}
	for name, v := range map[string]int{
		"margin":       c.Layout.Margin,
		"clearance":    c.Layout.Clearance,
		"node_spacing": c.Layout.NodeSpacing,
		"rank_spacing": c.Layout.RankSpacing,
		"grid_size":    c.Layout.GridSize,
	} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must not be negative (got %d)", name, v)
		}
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive (got %g)", c.Render.Scale)
	}
	return nil
}

// LayoutOptions converts the layout section to [layout.Options].
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Margin:      c.Layout.Margin,
		Clearance:   c.Layout.Clearance,
		NodeSpacing: c.Layout.NodeSpacing,
		RankSpacing: c.Layout.RankSpacing,
		GridSize:    c.Layout.GridSize,
	}
}

// String renders the effective settings as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("%+v", c)
	}
	return b.String()
}
