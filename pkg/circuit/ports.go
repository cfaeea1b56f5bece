package circuit

// Side names the boundary a port sits on after rotation.
type Side string

// Port sides.
const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideCenter Side = "center"
)

// Port is a terminal offset relative to the component center.
type Port struct {
	Side   Side
	Offset Point
}

// defaultSize is the square footprint of unknown kinds.
var defaultSize = Size{W: 40, H: 40}

// Size returns the bounding box of the unrotated symbol. All dimensions are even
// so that half-extents, and therefore rotated port offsets, stay integral.
func (k Kind) Size() Size {
	switch k {
	case KindResistor:
		return Size{W: 60, H: 24}
	case KindCapacitor:
		return Size{W: 40, H: 40}
	case KindInductor:
		return Size{W: 64, H: 24}
	case KindVoltageSource, KindCurrentSource:
		return Size{W: 40, H: 40}
	case KindDiode:
		return Size{W: 48, H: 24}
	case KindSwitch:
		return Size{W: 56, H: 24}
	case KindGround:
		return Size{W: 32, H: 24}
	case KindNode:
		return Size{W: 8, H: 8}
	default:
		return defaultSize
	}
}

// terminals returns the unrotated port offsets of k in terminal order.
func (k Kind) terminals() []Point {
	s := k.Size()
	switch k {
	case KindGround:
		return []Point{{X: 0, Y: -s.H / 2}}
	case KindNode:
		return []Point{{X: 0, Y: 0}}
	default:
		return []Point{{X: -s.W / 2, Y: 0}, {X: s.W / 2, Y: 0}}
	}
}

// Ports returns the port offsets of kind k under rotation r, in terminal order.
// Offsets are obtained by rotating the unrotated offsets, so the result is
// defined for every rotation and composes: Ports(k, a+b) equals rotating
// Ports(k, a) by b.
func Ports(k Kind, r Rotation) []Port {
	terms := k.terminals()
	ports := make([]Port, len(terms))
	for i, t := range terms {
		off := r.Apply(t)
		ports[i] = Port{Side: sideOf(off), Offset: off}
	}
	return ports
}

func sideOf(off Point) Side {
	ax, ay := abs(off.X), abs(off.Y)
	switch {
	case ax == 0 && ay == 0:
		return SideCenter
	case ax >= ay && off.X < 0:
		return SideLeft
	case ax >= ay:
		return SideRight
	case off.Y < 0:
		return SideTop
	default:
		return SideBottom
	}
}

// PortPositions returns the absolute port coordinates of c.
func PortPositions(c ResolvedComponent) []Point {
	ports := Ports(c.Type, c.Rotation)
	pts := make([]Point, len(ports))
	for i, p := range ports {
		pts[i] = c.Position.Add(p.Offset)
	}
	return pts
}

// PortAt returns the absolute coordinate of the port on the given side of c.
func PortAt(c ResolvedComponent, side Side) (Point, bool) {
	for _, p := range Ports(c.Type, c.Rotation) {
		if p.Side == side {
			return c.Position.Add(p.Offset), true
		}
	}
	return Point{}, false
}

// NearestPort returns the port of c closest to target, along with its side.
// Ties resolve to the earlier terminal so the choice is deterministic.
func NearestPort(c ResolvedComponent, target Point) (Point, Side) {
	var (
		best     Point
		bestSide Side
		bestDist = -1
	)
	for _, p := range Ports(c.Type, c.Rotation) {
		pos := c.Position.Add(p.Offset)
		if d := pos.Dist2(target); bestDist < 0 || d < bestDist {
			best, bestSide, bestDist = pos, p.Side, d
		}
	}
	return best, bestSide
}

// Bounds returns the box occupied by c under its rotation.
func Bounds(c ResolvedComponent) Rect {
	return RectAround(c.Position.Vec(), c.Type.Size().Rotated(c.Rotation))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
