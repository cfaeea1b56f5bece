package layout

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMargin is the empty border around the drawing in pixels.
	DefaultMargin = 40

	// DefaultClearance is the minimum gap between two component boxes kept by
	// post-processing translations.
	DefaultClearance = 10

	// DefaultNodeSpacing is the gap between components of the same layer.
	DefaultNodeSpacing = 40

	// DefaultRankSpacing is the gap between consecutive layers.
	DefaultRankSpacing = 60

	// DefaultGridSize is the grid used by the legacy manual path when the
	// author enables snapping without naming a grid.
	DefaultGridSize = 20

	// DefaultRowGap is the horizontal gap used by the minimal fallback row.
	DefaultRowGap = 40
)

// Strategy names.
const (
	StrategySemantic = "semantic"
	StrategyRank     = "rank"
	StrategyFixed    = "fixed"
	StrategyAuto     = "auto"
)

// =============================================================================
// Options
// =============================================================================

// Options tunes spacing for all strategies. The zero value is valid; unset
// fields take the package defaults.
type Options struct {
	Margin      int `toml:"margin" json:"margin,omitempty"`
	Clearance   int `toml:"clearance" json:"clearance,omitempty"`
	NodeSpacing int `toml:"node_spacing" json:"node_spacing,omitempty"`
	RankSpacing int `toml:"rank_spacing" json:"rank_spacing,omitempty"`
	GridSize    int `toml:"grid_size" json:"grid_size,omitempty"`

	// Logger receives warnings about recovered failures. Nil discards.
	Logger *log.Logger `toml:"-" json:"-"`
}

// WithDefaults returns a copy of o with every unset field defaulted.
func (o Options) WithDefaults() Options {
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Clearance <= 0 {
		o.Clearance = DefaultClearance
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.RankSpacing <= 0 {
		o.RankSpacing = DefaultRankSpacing
	}
	if o.GridSize <= 0 {
		o.GridSize = DefaultGridSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// =============================================================================
// Placement
// =============================================================================

// Placement is the output of a layout strategy: every component with final
// integer geometry, plus optional routing hints per connection.
type Placement struct {
	// Strategy names the strategy that produced the placement.
	Strategy string

	// Components are in input order with integer positions.
	Components []circuit.ResolvedComponent

	// Hints holds orthogonal bend points per connection index of the input
	// config. A nil entry means the connection is routed geometrically.
	Hints [][]circuit.Point
}

// Bounds returns the box covering every component, or the zero Rect when the
// placement is empty.
func (p *Placement) Bounds() circuit.Rect {
	return boundsOf(p.Components)
}

func boundsOf(comps []circuit.ResolvedComponent) circuit.Rect {
	if len(comps) == 0 {
		return circuit.Rect{}
	}
	r := circuit.Bounds(comps[0])
	for _, c := range comps[1:] {
		r = r.Union(circuit.Bounds(c))
	}
	return r
}

// =============================================================================
// Strategy
// =============================================================================

// Strategy turns a sanitized configuration into a placement. Implementations
// are stateless: every call builds its own working data, so one Strategy may
// serve concurrent calls for different diagrams.
type Strategy interface {
	// Name returns the strategy identifier (semantic, rank, fixed).
	Name() string

	// Layout places every component of cfg. cfg must have been passed through
	// circuit.Sanitize. Implementations recover from internal failures and
	// only return an error when ctx is done.
	Layout(ctx context.Context, cfg circuit.Config) (*Placement, error)
}

// Select picks the strategy matching the input shape:
//
//  1. any authored position marks the legacy manual format: [Rank] when the
//     author asks for auto layout, otherwise [Fixed];
//  2. roles, orientation hints or constraints select [Semantic];
//  3. raw topology falls back to [Rank].
func Select(cfg circuit.Config, opts Options) Strategy {
	switch {
	case cfg.Positioned() && cfg.AutoLayout:
		return NewRank(opts)
	case cfg.Positioned():
		return NewFixed(opts)
	case cfg.Semantic():
		return NewSemantic(opts)
	default:
		return NewRank(opts)
	}
}

// ByName returns the named strategy. The empty name and "auto" defer to
// [Select].
func ByName(name string, cfg circuit.Config, opts Options) (Strategy, error) {
	switch name {
	case "", StrategyAuto:
		return Select(cfg, opts), nil
	case StrategySemantic:
		return NewSemantic(opts), nil
	case StrategyRank:
		return NewRank(opts), nil
	case StrategyFixed:
		return NewFixed(opts), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown layout strategy %q", name)
	}
}

// =============================================================================
// Invariant checks
// =============================================================================

// Overlapping returns the id pairs whose boxes intersect by more than buffer
// pixels, using each kind's true dimensions under its rotation.
func Overlapping(comps []circuit.ResolvedComponent, buffer float64) [][2]string {
	var pairs [][2]string
	for i := range comps {
		bi := circuit.Bounds(comps[i])
		for j := i + 1; j < len(comps); j++ {
			if bi.Overlaps(circuit.Bounds(comps[j]), buffer) {
				pairs = append(pairs, [2]string{comps[i].ID, comps[j].ID})
			}
		}
	}
	return pairs
}

// Sparsity returns the ratio of the drawing's bounding-box area to the sum of
// the component areas. Empty placements report 0.
func Sparsity(comps []circuit.ResolvedComponent) float64 {
	if len(comps) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range comps {
		sum += float64(c.Type.Size().Area())
	}
	if sum == 0 {
		return math.Inf(1)
	}
	return boundsOf(comps).Area() / sum
}
