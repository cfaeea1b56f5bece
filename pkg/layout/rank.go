package layout

import (
	"context"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/netlist"
	"github.com/matzehuels/schematic/pkg/netlist/transform"
)

// Base spacing of the rank layout before rounding up to the grid.
const (
	rankStep = 120
	nodeStep = 80
)

// Rank is the fallback layout for raw topology and for legacy diagrams that
// ask for auto layout. Each connected part is ranked by wiring distance from
// its source (an input, else a voltage or current source, else its first
// component), ranks run left to right and parts are stacked top to bottom.
// In-rank order is refined by barycenter sweeps.
//
// Every spacing is a multiple of the grid, so positions land on grid points
// and the single snap is exact.
type Rank struct {
	opts Options
}

// NewRank creates the rank strategy.
func NewRank(opts Options) *Rank {
	return &Rank{opts: opts.WithDefaults()}
}

// Name implements [Strategy].
func (r *Rank) Name() string { return StrategyRank }

// Layout implements [Strategy].
func (r *Rank) Layout(ctx context.Context, cfg circuit.Config) (*Placement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := gridFor(cfg)
	rs, ns := ceilTo(rankStep, grid), ceilTo(nodeStep, grid)
	originX := ceilTo(r.opts.Margin+rs/2, grid)
	top := ceilTo(r.opts.Margin, grid)

	centers := make(map[string]circuit.Vec, len(cfg.Components))
	for _, part := range partGraphs(cfg) {
		transform.AssignRanks(part)
		orders := transform.OrderRanks(part, transform.DefaultSweeps)

		tallest := 0
		for rank, ids := range orders {
			for i, id := range ids {
				centers[id] = circuit.Vec{
					X: float64(originX + rank*rs),
					Y: float64(top + ns/2 + i*ns),
				}
			}
			tallest = max(tallest, len(ids))
		}
		top = ceilTo(top+tallest*ns, grid)
	}

	p := &Placement{
		Strategy:   StrategyRank,
		Components: make([]circuit.ResolvedComponent, 0, len(cfg.Components)),
		Hints:      make([][]circuit.Point, len(cfg.Connections)),
	}
	for _, c := range cfg.Components {
		rot := c.Rotation
		if pinned, ok := c.Orientation.Rotation(); ok {
			rot = pinned
		}
		p.Components = append(p.Components, resolve(c, centers[c.ID].Snap(grid), rot))
	}
	return p, nil
}

// partGraphs builds one wiring graph per connected part, in declaration order.
func partGraphs(cfg circuit.Config) []*netlist.Graph {
	whole := buildGraph(cfg.Components, cfg.Connections)
	byID := make(map[string]circuit.Component, len(cfg.Components))
	for _, c := range cfg.Components {
		byID[c.ID] = c
	}

	var graphs []*netlist.Graph
	for _, ids := range whole.Parts() {
		in := make(map[string]bool, len(ids))
		comps := make([]circuit.Component, 0, len(ids))
		for _, id := range ids {
			in[id] = true
			comps = append(comps, byID[id])
		}
		var conns []circuit.Connection
		for _, conn := range cfg.Connections {
			if in[conn.From] {
				conns = append(conns, conn)
			}
		}
		graphs = append(graphs, buildGraph(comps, conns))
	}
	return graphs
}

func buildGraph(comps []circuit.Component, conns []circuit.Connection) *netlist.Graph {
	root := ""
	for _, c := range comps {
		if c.Role == circuit.RoleInput {
			root = c.ID
			break
		}
	}
	if root == "" {
		for _, c := range comps {
			if c.Type == circuit.KindVoltageSource || c.Type == circuit.KindCurrentSource {
				root = c.ID
				break
			}
		}
	}

	g := netlist.New()
	for _, c := range comps {
		// Sanitized input has unique non-empty ids.
		_ = g.AddNode(netlist.Node{ID: c.ID, Root: c.ID == root})
	}
	for _, conn := range conns {
		_ = g.AddEdge(netlist.Edge{From: conn.From, To: conn.To})
	}
	return g
}

// gridFor returns the snapping grid of a diagram: the legacy grid, then the
// constraint grid, then the default.
func gridFor(cfg circuit.Config) int {
	switch {
	case cfg.GridSize > 0:
		return cfg.GridSize
	case cfg.Constraint().GridSize > 0:
		return cfg.Constraint().GridSize
	default:
		return DefaultGridSize
	}
}

func ceilTo(v, grid int) int {
	if grid <= 1 {
		return v
	}
	return (v + grid - 1) / grid * grid
}
