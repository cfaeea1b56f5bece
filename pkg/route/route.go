// Package route turns placed components and optional bend hints into
// orthogonal wire paths that start and end exactly on component ports.
package route

import (
	"github.com/matzehuels/schematic/pkg/circuit"
)

// Resolve routes one connection between two placed components.
//
// The start port is the port of from nearest to the first hint (or, without
// hints, to the centre of to); the end port is the port of to nearest to the
// last hint (or to the start port). Hints are kept verbatim; an elbow is
// inserted wherever two consecutive points are not axis-aligned, so every
// segment of the result is horizontal or vertical. Without hints the wire is
// straight when the ports line up and takes a single elbow otherwise, turning
// the way the start port faces. Duplicate and collinear points are removed.
func Resolve(from, to circuit.ResolvedComponent, conn circuit.Connection, hints []circuit.Point) circuit.ResolvedConnection {
	startTarget := to.Position
	if len(hints) > 0 {
		startTarget = hints[0]
	}
	start, startSide := circuit.NearestPort(from, startTarget)

	endTarget := start
	if len(hints) > 0 {
		endTarget = hints[len(hints)-1]
	}
	end, endSide := circuit.NearestPort(to, endTarget)

	pts := make([]circuit.Point, 0, len(hints)+2)
	pts = append(pts, start)
	pts = append(pts, hints...)
	pts = append(pts, end)

	path := orthogonalize(pts, startSide, endSide)
	path = simplify(path)

	bends := make([]circuit.Point, 0, len(path))
	if len(path) > 2 {
		bends = append(bends, path[1:len(path)-1]...)
	}
	return circuit.ResolvedConnection{
		From:       conn.From,
		To:         conn.To,
		Style:      conn.Style,
		StartPoint: start,
		EndPoint:   end,
		BendPoints: bends,
	}
}

// ResolveAll routes every connection of a placement. hints may be nil or
// shorter than conns. Connections whose endpoints are not among comps are
// omitted and reported; the remaining wires keep their input order.
func ResolveAll(comps []circuit.ResolvedComponent, conns []circuit.Connection, hints [][]circuit.Point) ([]circuit.ResolvedConnection, []circuit.Issue) {
	byID := make(map[string]circuit.ResolvedComponent, len(comps))
	for _, c := range comps {
		byID[c.ID] = c
	}

	var issues []circuit.Issue
	out := make([]circuit.ResolvedConnection, 0, len(conns))
	for i, conn := range conns {
		from, okFrom := byID[conn.From]
		to, okTo := byID[conn.To]
		subject := conn.From + "->" + conn.To
		switch {
		case !okFrom || !okTo:
			issues = append(issues, circuit.Issue{Kind: circuit.IssueDangling, Subject: subject})
			continue
		case conn.From == conn.To:
			issues = append(issues, circuit.Issue{Kind: circuit.IssueSelfLoop, Subject: subject})
			continue
		}
		var h []circuit.Point
		if i < len(hints) {
			h = hints[i]
		}
		out = append(out, Resolve(from, to, conn, h))
	}
	return out, issues
}

func horizontal(s circuit.Side) bool {
	return s == circuit.SideLeft || s == circuit.SideRight
}

func vertical(s circuit.Side) bool {
	return s == circuit.SideTop || s == circuit.SideBottom
}

// orthogonalize inserts one elbow between every pair of consecutive points
// that differ on both axes. The first segment leaves along the start port's
// axis and the last one enters along the end port's axis; interior segments
// go horizontal first.
func orthogonalize(pts []circuit.Point, startSide, endSide circuit.Side) []circuit.Point {
	out := make([]circuit.Point, 0, 2*len(pts))
	out = append(out, pts[0])
	last := len(pts) - 1
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if a.X != b.X && a.Y != b.Y {
			hFirst := true
			switch {
			case i == 1 && vertical(startSide):
				hFirst = false
			case i == 1 && horizontal(startSide):
				hFirst = true
			case i == last && horizontal(endSide):
				hFirst = false
			case i == last && vertical(endSide):
				hFirst = true
			}
			if hFirst {
				out = append(out, circuit.Point{X: b.X, Y: a.Y})
			} else {
				out = append(out, circuit.Point{X: a.X, Y: b.Y})
			}
		}
		out = append(out, b)
	}
	return out
}

// simplify drops repeated points and interior points that lie on a straight
// line between their neighbours. The endpoints are always kept.
func simplify(pts []circuit.Point) []circuit.Point {
	out := make([]circuit.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
		for len(out) >= 3 {
			a, b, c := out[len(out)-3], out[len(out)-2], out[len(out)-1]
			if !(a.X == b.X && b.X == c.X) && !(a.Y == b.Y && b.Y == c.Y) {
				break
			}
			out = append(out[:len(out)-2], c)
		}
	}
	if len(out) == 1 && len(pts) > 1 {
		// start and end coincide
		out = append(out, out[0])
	}
	return out
}
