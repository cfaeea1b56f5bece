package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/buildinfo"
	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/config"
	"github.com/matzehuels/schematic/pkg/observability"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completions.
const appName = "schematic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Schematic lays out and renders circuit diagrams",
		Long: `Schematic turns semantic circuit descriptions (components, roles and
connections) into clean schematics: components are placed, wires are routed
orthogonally onto component terminals, and the result is drawn as SVG, PNG,
PDF or JSON.

Diagram documents are JSON or YAML. Markdown pages are scanned for fenced
circuit-diagram blocks.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir/schematic/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the layered configuration and routes observability events
// to the CLI logger.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	c.Logger.Debug("loaded config", "path", c.configPath, "strategy", cfg.Layout.Strategy, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if ttl := c.Config.Cache.TTL; ttl > 0 {
		runner.ArtifactTTL = ttl
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.Config.Cache.RedisURL})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the file cache directory: the configured one, or the
// user cache dir.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the layout and render flags shared by commands.
type pipelineFlags struct {
	strategy string
	theme    string
	formats  string
	legend   bool
	scale    float64
	refresh  bool
	noCache  bool
}

func (f *pipelineFlags) register(cmd *cobra.Command, withRender bool) {
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "layout strategy: auto, semantic, rank, fixed (default from config)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	if !withRender {
		return
	}
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme: light, dark (default from config)")
	cmd.Flags().BoolVar(&f.legend, "legend", false, "draw a legend below the diagram")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default from config)")
}

// options merges command flags over the configured defaults.
func (c *CLI) options(cmd *cobra.Command, f pipelineFlags) pipeline.Options {
	opts := pipeline.Options{
		Strategy: c.Config.Layout.Strategy,
		Layout:   c.Config.LayoutOptions(),
		Formats:  parseFormats(f.formats),
		Theme:    c.Config.Render.Theme,
		Legend:   c.Config.Render.Legend,
		Scale:    c.Config.Render.Scale,
		Refresh:  f.refresh,
		Logger:   c.Logger,
	}
	if f.strategy != "" {
		opts.Strategy = f.strategy
	}
	if f.theme != "" {
		opts.Theme = f.theme
	}
	if cmd.Flags().Changed("legend") {
		opts.Legend = f.legend
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as TOML.

Settings are layered: built-in defaults, then the config file, then
SCHEMATIC_* environment variables (for example SCHEMATIC_LAYOUT_STRATEGY or
SCHEMATIC_CACHE_REDIS_URL).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), c.Config.String())
			return nil
		},
	}
}
