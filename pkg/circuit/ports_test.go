package circuit

import (
	"testing"
)

var allKinds = []Kind{
	KindResistor, KindCapacitor, KindInductor, KindVoltageSource, KindCurrentSource,
	KindDiode, KindSwitch, KindGround, KindNode, Kind("transformer"),
}

func TestSizesAreEven(t *testing.T) {
	for _, k := range allKinds {
		s := k.Size()
		if s.W%2 != 0 || s.H%2 != 0 {
			t.Errorf("%s size %dx%d has odd extent", k, s.W, s.H)
		}
		if s.W <= 0 || s.H <= 0 {
			t.Errorf("%s size %dx%d must be positive", k, s.W, s.H)
		}
	}
}

func TestPortCounts(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindResistor, 2},
		{KindCapacitor, 2},
		{KindInductor, 2},
		{KindVoltageSource, 2},
		{KindGround, 1},
		{KindNode, 1},
		{Kind("mystery"), 2},
	}
	for _, tt := range tests {
		if got := len(Ports(tt.kind, Rotate0)); got != tt.want {
			t.Errorf("len(Ports(%s)) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestPortSidesUnderRotation(t *testing.T) {
	tests := []struct {
		rot  Rotation
		want [2]Side
	}{
		{Rotate0, [2]Side{SideLeft, SideRight}},
		{Rotate90, [2]Side{SideTop, SideBottom}},
		{Rotate180, [2]Side{SideRight, SideLeft}},
		{Rotate270, [2]Side{SideBottom, SideTop}},
	}
	for _, tt := range tests {
		ports := Ports(KindResistor, tt.rot)
		got := [2]Side{ports[0].Side, ports[1].Side}
		if got != tt.want {
			t.Errorf("Ports(resistor, %d) sides = %v, want %v", tt.rot, got, tt.want)
		}
	}

	ground := Ports(KindGround, Rotate0)
	if ground[0].Side != SideTop || ground[0].Offset != (Point{0, -12}) {
		t.Errorf("ground port = %+v, want top (0,-12)", ground[0])
	}
	if node := Ports(KindNode, Rotate90); node[0].Side != SideCenter {
		t.Errorf("node port side = %s, want center", node[0].Side)
	}
}

func TestPortAt(t *testing.T) {
	ground := ResolvedComponent{ID: "GND", Type: KindGround, Position: Point{X: 100, Y: 50}}
	resistor := ResolvedComponent{ID: "R1", Type: KindResistor, Position: Point{X: 100, Y: 50}}

	tests := []struct {
		c    ResolvedComponent
		rot  Rotation
		side Side
		want Point
		ok   bool
	}{
		{ground, Rotate0, SideTop, Point{100, 38}, true},
		{ground, Rotate90, SideRight, Point{112, 50}, true},
		{ground, Rotate180, SideBottom, Point{100, 62}, true},
		{ground, Rotate270, SideLeft, Point{88, 50}, true},
		{ground, Rotate90, SideTop, Point{}, false},

		{resistor, Rotate0, SideLeft, Point{70, 50}, true},
		{resistor, Rotate90, SideTop, Point{100, 20}, true},
		{resistor, Rotate180, SideLeft, Point{70, 50}, true},
		{resistor, Rotate270, SideBottom, Point{100, 80}, true},
		{resistor, Rotate90, SideLeft, Point{}, false},
	}
	for _, tt := range tests {
		c := tt.c
		c.Rotation = tt.rot
		got, ok := PortAt(c, tt.side)
		if ok != tt.ok || got != tt.want {
			t.Errorf("PortAt(%s@%d, %s) = %v, %v; want %v, %v", c.ID, tt.rot, tt.side, got, ok, tt.want, tt.ok)
		}
		if ok && !containsPoint(PortPositions(c), got) {
			t.Errorf("PortAt(%s@%d, %s) = %v is not among PortPositions", c.ID, tt.rot, tt.side, got)
		}
	}
}

func containsPoint(pts []Point, p Point) bool {
	for _, q := range pts {
		if q == p {
			return true
		}
	}
	return false
}

func TestRotationComposes(t *testing.T) {
	rots := []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}
	for _, k := range allKinds {
		for _, a := range rots {
			for _, b := range rots {
				base := Ports(k, a)
				direct := Ports(k, a.Add(b))
				for i := range base {
					if got := b.Apply(base[i].Offset); got != direct[i].Offset {
						t.Errorf("%s: rotate(%d) then %d = %v, want %v", k, a, b, got, direct[i].Offset)
					}
				}
			}
		}
	}
}

func TestRotationNormalize(t *testing.T) {
	tests := []struct {
		in, want Rotation
	}{
		{0, 0}, {90, 90}, {360, 0}, {450, 90}, {-90, 270}, {-180, 180},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Rotation(%d).Normalize() = %d, want %d", tt.in, got, tt.want)
		}
	}
	if Rotation(45).Valid() {
		t.Error("Rotation(45).Valid() = true, want false")
	}
}

func TestBoundsSwapAxesWhenVertical(t *testing.T) {
	c := ResolvedComponent{Type: KindResistor, Position: Point{100, 100}, Rotation: Rotate90}
	b := Bounds(c)
	if b.Width() != 24 || b.Height() != 60 {
		t.Errorf("Bounds() = %vx%v, want 24x60", b.Width(), b.Height())
	}
}

func TestNearestPort(t *testing.T) {
	c := ResolvedComponent{Type: KindResistor, Position: Point{100, 50}}
	p, side := NearestPort(c, Point{300, 50})
	if side != SideRight || p != (Point{130, 50}) {
		t.Errorf("NearestPort() = %v %s, want (130,50) right", p, side)
	}
	p, side = NearestPort(c, Point{-10, 80})
	if side != SideLeft || p != (Point{70, 50}) {
		t.Errorf("NearestPort() = %v %s, want (70,50) left", p, side)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if !a.Overlaps(Rect{5, 5, 15, 15}, 0) {
		t.Error("overlapping rects reported disjoint")
	}
	if a.Overlaps(Rect{10, 0, 20, 10}, 0) {
		t.Error("touching rects reported overlapping")
	}
	if a.Overlaps(Rect{9.5, 0, 20, 10}, 1) {
		t.Error("grazing rects within buffer reported overlapping")
	}
}

func TestVecSnap(t *testing.T) {
	v := Vec{X: 31, Y: 49.6}
	if got := v.Snap(20); got != (Point{40, 40}) {
		t.Errorf("Snap(20) = %v, want (40,40)", got)
	}
	if got := v.Snap(0); got != (Point{31, 50}) {
		t.Errorf("Snap(0) = %v, want (31,50)", got)
	}
	snapped := v.Snap(20)
	if again := snapped.Vec().Snap(20); again != snapped {
		t.Errorf("Snap is not idempotent: %v then %v", snapped, again)
	}
}
