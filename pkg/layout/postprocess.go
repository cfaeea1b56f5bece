package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// placed is a component during post-processing.
type placed struct {
	comp   circuit.Component
	center circuit.Vec
	rot    circuit.Rotation
	moved  bool
}

func (p *placed) rect() circuit.Rect {
	return circuit.RectAround(p.center, p.comp.Type.Size().Rotated(p.rot))
}

// postProcess applies the schematic drawing conventions to provisional engine
// geometry and snaps the result. The passes run in a fixed order:
//
//  1. orientation: two-terminal parts whose wires all leave vertically are
//     turned a quarter, unless the author pinned an orientation;
//  2. ground: with GroundAtBottom, grounds sitting at or above the mean
//     height of all other parts (other grounds included) drop below
//     everything they share a column with;
//  3. flow: with left-to-right flow, outputs that are not strictly right of
//     every input move right of everything they share a row with.
//
// Translations only move along one axis and always keep Clearance pixels to
// the boxes they pass, so no new overlap is created. A moved component loses
// the engine's bend points for its wires. Snapping happens exactly once, after
// the normalizing translation that puts the drawing at the margin.
func postProcess(cfg circuit.Config, res *engineResult, opts Options) *Placement {
	nodes := make([]*placed, len(cfg.Components))
	byID := make(map[string]*placed, len(cfg.Components))
	for i, c := range cfg.Components {
		nodes[i] = &placed{comp: c, center: res.centers[c.ID]}
		byID[c.ID] = nodes[i]
	}

	assignOrientation(nodes, byID, cfg.Connections, res.routes)

	cons := cfg.Constraint()
	clearance := float64(opts.Clearance)
	if cons.GroundAtBottom {
		placeGrounds(nodes, clearance)
	}
	if cons.FlowDirection == circuit.FlowLeftToRight {
		orderFlow(nodes, clearance)
	}

	return snapPlacement(StrategySemantic, nodes, byID, cfg.Connections, res.routes, opts.Margin)
}

// assignOrientation fills in rotations. A wire counts as vertical at a
// component when the segment leaving it (or, without an engine route, the
// direction to the far component) changes y more than x.
func assignOrientation(nodes []*placed, byID map[string]*placed, conns []circuit.Connection, routes [][]circuit.Vec) {
	vertical := make(map[string][]bool, len(nodes))
	for i, conn := range conns {
		from, to := byID[conn.From], byID[conn.To]
		var route []circuit.Vec
		if i < len(routes) {
			route = routes[i]
		}
		vertical[conn.From] = append(vertical[conn.From], leavesVertically(from.center, to.center, route, false))
		vertical[conn.To] = append(vertical[conn.To], leavesVertically(to.center, from.center, route, true))
	}

	for _, n := range nodes {
		if r, pinned := n.comp.Orientation.Rotation(); pinned {
			n.rot = r
			continue
		}
		dirs := vertical[n.comp.ID]
		if !n.comp.Type.TwoTerminal() || len(dirs) == 0 {
			continue
		}
		if !slices.Contains(dirs, false) {
			n.rot = circuit.Rotate90
		}
	}
}

func leavesVertically(self, other circuit.Vec, route []circuit.Vec, atEnd bool) bool {
	a, b := self, other
	if len(route) >= 2 {
		if atEnd {
			a, b = route[len(route)-1], route[len(route)-2]
		} else {
			a, b = route[0], route[1]
		}
	}
	return math.Abs(b.Y-a.Y) > math.Abs(b.X-a.X)
}

// placeGrounds pushes every ground that is not at least a pixel below the
// mean of all other parts, other grounds included, down until it clears
// every box it shares a column with. A push raises the mean seen by the
// remaining grounds, so passes repeat until no ground moves. The pixel of
// slack survives rounding. Diagrams made only of grounds are left alone.
func placeGrounds(nodes []*placed, clearance float64) {
	var grounds []*placed
	total := 0.0
	for _, n := range nodes {
		if n.comp.Role == circuit.RoleGround {
			grounds = append(grounds, n)
		}
		total += n.center.Y
	}
	if len(grounds) == 0 || len(grounds) == len(nodes) {
		return
	}

	others := float64(len(nodes) - 1)
	for pass := 0; pass < 4*len(nodes)+8; pass++ {
		slices.SortStableFunc(grounds, func(a, b *placed) int {
			return cmp.Compare(a.center.Y, b.center.Y)
		})
		settled := true
		for _, g := range grounds {
			mean := (total - g.center.Y) / others
			if g.center.Y >= mean+1 {
				continue
			}
			r := g.rect()
			half := r.Height() / 2
			floor := mean + 1
			for _, o := range nodes {
				if o == g {
					continue
				}
				or := o.rect()
				if or.MinX < r.MaxX+clearance && r.MinX < or.MaxX+clearance {
					floor = math.Max(floor, or.MaxY+clearance+half)
				}
			}
			y := math.Ceil(floor)
			total += y - g.center.Y
			g.center.Y = y
			g.moved = true
			settled = false
		}
		if settled {
			return
		}
	}
}

// orderFlow moves outputs right of every input when the left-to-right
// ordering is violated. Diagrams that declare no input use their voltage and
// current sources instead.
func orderFlow(nodes []*placed, clearance float64) {
	var inputs, outputs []*placed
	for _, n := range nodes {
		switch n.comp.Role {
		case circuit.RoleInput:
			inputs = append(inputs, n)
		case circuit.RoleOutput:
			outputs = append(outputs, n)
		}
	}
	if len(inputs) == 0 {
		// Without declared inputs the sources drive the flow.
		for _, n := range nodes {
			if n.comp.Type == circuit.KindVoltageSource || n.comp.Type == circuit.KindCurrentSource {
				inputs = append(inputs, n)
			}
		}
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return
	}

	maxIn := math.Inf(-1)
	for _, in := range inputs {
		maxIn = math.Max(maxIn, in.center.X)
	}
	violated := false
	for _, out := range outputs {
		if out.center.X < maxIn+1 {
			violated = true
			break
		}
	}
	if !violated {
		return
	}

	inputRight := math.Inf(-1)
	for _, in := range inputs {
		inputRight = math.Max(inputRight, in.rect().MaxX)
	}

	slices.SortStableFunc(outputs, func(a, b *placed) int {
		return cmp.Compare(a.center.X, b.center.X)
	})
	for _, out := range outputs {
		r := out.rect()
		half := r.Width() / 2
		floor := inputRight + clearance + half
		for _, o := range nodes {
			if o == out || (o.comp.Role == circuit.RoleOutput && !o.moved) {
				continue
			}
			or := o.rect()
			if or.MinY < r.MaxY+clearance && r.MinY < or.MaxY+clearance {
				floor = math.Max(floor, or.MaxX+clearance+half)
			}
		}
		out.center.X = math.Ceil(floor)
		out.moved = true
	}
}

// snapPlacement translates the drawing so its top-left box corner sits at the
// margin, rounds every position once and converts engine routes of unmoved
// wires into bend hints. Routes whose end legs would enter a component are
// dropped and left to the geometric router.
func snapPlacement(strategy string, nodes []*placed, byID map[string]*placed, conns []circuit.Connection, routes [][]circuit.Vec, margin int) *Placement {
	p := &Placement{
		Strategy:   strategy,
		Components: make([]circuit.ResolvedComponent, 0, len(nodes)),
		Hints:      make([][]circuit.Point, len(conns)),
	}
	if len(nodes) == 0 {
		return p
	}

	bounds := nodes[0].rect()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.rect())
	}
	offset := circuit.Vec{X: float64(margin) - bounds.MinX, Y: float64(margin) - bounds.MinY}

	for _, n := range nodes {
		center := circuit.Vec{X: n.center.X + offset.X, Y: n.center.Y + offset.Y}
		p.Components = append(p.Components, resolve(n.comp, center.Round(), n.rot))
	}

	final := make(map[string]circuit.ResolvedComponent, len(p.Components))
	for _, c := range p.Components {
		final[c.ID] = c
	}
	for i, conn := range conns {
		if i >= len(routes) || len(routes[i]) < 3 || byID[conn.From].moved || byID[conn.To].moved {
			continue
		}
		inner := routes[i][1 : len(routes[i])-1]
		hints := make([]circuit.Point, len(inner))
		for k, v := range inner {
			hints[k] = circuit.Vec{X: v.X + offset.X, Y: v.Y + offset.Y}.Round()
		}
		if !leavesOutward(final[conn.From], hints[0]) || !leavesOutward(final[conn.To], hints[len(hints)-1]) {
			continue
		}
		p.Hints[i] = hints
	}
	return p
}

// leavesOutward reports whether hint lies beyond the face of c carrying the
// port nearest to it. Otherwise the leg from that port to the hint would
// cross c's body, which happens when a rotation picked after engine layout
// disagrees with the engine's route.
func leavesOutward(c circuit.ResolvedComponent, hint circuit.Point) bool {
	_, side := circuit.NearestPort(c, hint)
	b := circuit.Bounds(c)
	h := hint.Vec()
	switch side {
	case circuit.SideLeft:
		return h.X <= b.MinX
	case circuit.SideRight:
		return h.X >= b.MaxX
	case circuit.SideTop:
		return h.Y <= b.MinY
	case circuit.SideBottom:
		return h.Y >= b.MaxY
	default:
		return true
	}
}

func resolve(c circuit.Component, pos circuit.Point, rot circuit.Rotation) circuit.ResolvedComponent {
	return circuit.ResolvedComponent{
		ID:       c.ID,
		Type:     c.Type,
		Position: pos,
		Rotation: rot,
		Label:    c.Label,
		Value:    c.Value,
		Role:     c.Role,
	}
}
