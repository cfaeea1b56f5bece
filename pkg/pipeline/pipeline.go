// Package pipeline provides the core diagram pipeline for schematic.
//
// This package implements the complete parse → layout → route → render
// pipeline used by the CLI and the HTTP server. Centralizing it keeps both
// entry points consistent.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode the fenced diagram document (JSON or YAML)
//  2. Layout: sanitize the config, place the components with a layout
//     strategy and route every wire onto component ports
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Only the parse stage reports malformed input as an error; layout and routing
// recover from bad data and report what they fixed as [circuit.Issue]s.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, cfg, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Lay out every diagram of a markdown page concurrently:
//
//	results := runner.ExecuteAll(ctx, markdown.Extract(page), opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTheme is the default colour theme.
	DefaultTheme = "light"

	// DefaultScale is the default PNG scale factor.
	DefaultScale = render.DefaultScale
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Strategy string         `json:"strategy,omitempty"`
	Layout   layout.Options `json:"layout,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Theme   string   `json:"theme,omitempty"`
	Legend  bool     `json:"legend,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Concurrency bounds ExecuteAll. Zero means one worker per CPU.
	Concurrency int `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the compiled, render-ready diagram.
	Diagram *circuit.Diagram

	// SourceHash is the content hash of the sanitized input.
	SourceHash string

	// Issues lists input problems that were recovered.
	Issues []circuit.Issue

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Components  int
	Connections int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the diagram came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.setDefaults()
	return errors.ValidateStrategy(o.Strategy)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.setDefaults()
	if err := errors.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateTheme(o.Theme); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive (got %g)", o.Scale)
	}
	return nil
}

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setDefaults() {
	if o.Strategy == "" {
		o.Strategy = layout.StrategyAuto
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Layout = o.Layout.WithDefaults()
}

// LayoutOptions returns the options handed to the layout strategy, sharing
// the pipeline logger.
func (o *Options) LayoutOptions() layout.Options {
	opts := o.Layout
	opts.Logger = o.Logger
	return opts.WithDefaults()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout.WithDefaults()
	return cache.LayoutKeyOpts{
		Strategy:    o.Strategy,
		Margin:      l.Margin,
		Clearance:   l.Clearance,
		NodeSpacing: l.NodeSpacing,
		RankSpacing: l.RankSpacing,
		GridSize:    l.GridSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Theme: o.Theme, Legend: o.Legend}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
