package circuit

import "math"

// Point is an integer pixel coordinate. Resolved geometry only ever uses Point
// so that rendering is pixel-stable.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Vec converts p to a continuous coordinate.
func (p Point) Vec() Vec { return Vec{float64(p.X), float64(p.Y)} }

// Dist2 returns the squared euclidean distance between p and q.
func (p Point) Dist2(q Point) int {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Vec is a continuous coordinate as produced by layout algorithms before
// snapping, or as written by authors of manually positioned diagrams.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Round snaps v to the nearest integer pixel.
func (v Vec) Round() Point {
	return Point{int(math.Round(v.X)), int(math.Round(v.Y))}
}

// Snap snaps v to the nearest multiple of grid. A grid of 1 or less rounds to
// integer pixels. Snap is idempotent: snapping a snapped value is a no-op.
func (v Vec) Snap(grid int) Point {
	if grid <= 1 {
		return v.Round()
	}
	g := float64(grid)
	return Point{int(math.Round(v.X/g)) * grid, int(math.Round(v.Y/g)) * grid}
}

// Size is the width and height of a component's unrotated symbol.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Area returns W*H.
func (s Size) Area() int { return s.W * s.H }

// Rotated returns the footprint after rotation; quarter turns swap the axes.
func (s Size) Rotated(r Rotation) Size {
	if r.Vertical() {
		return Size{W: s.H, H: s.W}
	}
	return s
}

// Rect is an axis-aligned box in continuous coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectAround returns the box of size s centered on c.
func RectAround(c Vec, s Size) Rect {
	hw, hh := float64(s.W)/2, float64(s.H)/2
	return Rect{MinX: c.X - hw, MinY: c.Y - hh, MaxX: c.X + hw, MaxY: c.Y + hh}
}

// Overlaps reports whether r and o intersect by more than buffer pixels on both
// axes. A positive buffer lets boxes touch or graze without counting as overlap.
func (r Rect) Overlaps(o Rect, buffer float64) bool {
	return r.MinX < o.MaxX-buffer && o.MinX < r.MaxX-buffer &&
		r.MinY < o.MaxY-buffer && o.MinY < r.MaxY-buffer
}

// Union returns the smallest box containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Width returns the horizontal span of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the area of r.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Rotation is a clockwise quarter-turn rotation in screen coordinates
// (y pointing down). Only 0, 90, 180 and 270 are valid.
type Rotation int

// Valid rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Valid reports whether r is a multiple of 90 degrees.
func (r Rotation) Valid() bool { return r%90 == 0 }

// Normalize maps any multiple of 90 degrees into [0, 360).
func (r Rotation) Normalize() Rotation {
	n := r % 360
	if n < 0 {
		n += 360
	}
	return n
}

// Add composes two rotations.
func (r Rotation) Add(o Rotation) Rotation { return (r + o).Normalize() }

// Vertical reports whether r turns a horizontal symbol into a vertical one.
func (r Rotation) Vertical() bool {
	n := r.Normalize()
	return n == Rotate90 || n == Rotate270
}

// matrix returns the integer rotation matrix for r, laid out as the linear
// part of an affine transform:
//
//	| a  c |
//	| b  d |
func (r Rotation) matrix() (a, b, c, d int) {
	rad := float64(r.Normalize()) * math.Pi / 180
	cos := int(math.Round(math.Cos(rad)))
	sin := int(math.Round(math.Sin(rad)))
	return cos, sin, -sin, cos
}

// Apply rotates p about the origin.
func (r Rotation) Apply(p Point) Point {
	a, b, c, d := r.matrix()
	return Point{X: a*p.X + c*p.Y, Y: b*p.X + d*p.Y}
}
