package layout

import (
	"context"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// Fixed honours author-supplied positions and rotations of the legacy manual
// format. Positions are rounded to integer pixels, or snapped to the grid when
// the author enables SnapToGrid; either way each position is snapped once.
// Components the author left without a position are parked in a row below
// the positioned ones.
type Fixed struct {
	opts Options
}

// NewFixed creates the fixed strategy.
func NewFixed(opts Options) *Fixed {
	return &Fixed{opts: opts.WithDefaults()}
}

// Name implements [Strategy].
func (f *Fixed) Name() string { return StrategyFixed }

// Layout implements [Strategy].
func (f *Fixed) Layout(ctx context.Context, cfg circuit.Config) (*Placement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := 1
	if cfg.SnapToGrid {
		grid = gridFor(cfg)
	}

	p := &Placement{
		Strategy:   StrategyFixed,
		Components: make([]circuit.ResolvedComponent, 0, len(cfg.Components)),
		Hints:      make([][]circuit.Point, len(cfg.Connections)),
	}

	var (
		bottom   = float64(f.opts.Margin)
		unplaced []int
	)
	for i, c := range cfg.Components {
		if c.Position == nil {
			unplaced = append(unplaced, i)
			continue
		}
		rc := resolve(c, c.Position.Snap(grid), c.Rotation)
		bottom = max(bottom, circuit.Bounds(rc).MaxY)
	}

	x := float64(f.opts.Margin)
	parked := make(map[int]circuit.Point, len(unplaced))
	for _, i := range unplaced {
		s := cfg.Components[i].Type.Size().Rotated(cfg.Components[i].Rotation)
		center := circuit.Vec{
			X: x + float64(s.W)/2,
			Y: bottom + float64(f.opts.NodeSpacing) + float64(s.H)/2,
		}
		parked[i] = center.Snap(grid)
		x += float64(s.W) + DefaultRowGap
	}

	for i, c := range cfg.Components {
		pos, ok := parked[i]
		if !ok {
			pos = c.Position.Snap(grid)
		}
		p.Components = append(p.Components, resolve(c, pos, c.Rotation))
	}
	return p, nil
}
