package layout

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// fakeEngine returns fixed provisional geometry.
func fakeEngine(centers map[string]circuit.Vec, routes [][]circuit.Vec) engineFunc {
	return func(context.Context, circuit.Config, Options) (*engineResult, error) {
		return &engineResult{centers: centers, routes: routes}, nil
	}
}

func semanticWith(engine engineFunc) *Semantic {
	s := NewSemantic(Options{})
	s.engine = engine
	return s
}

func byID(t *testing.T, p *Placement) map[string]circuit.ResolvedComponent {
	t.Helper()
	m := make(map[string]circuit.ResolvedComponent, len(p.Components))
	for _, c := range p.Components {
		m[c.ID] = c
	}
	return m
}

func TestSemanticOrientation(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "R1", Type: circuit.KindResistor},
			{ID: "R2", Type: circuit.KindResistor},
			{ID: "R3", Type: circuit.KindResistor, Orientation: circuit.OrientationHorizontal},
			{ID: "R4", Type: circuit.KindResistor},
		},
		Connections: []circuit.Connection{
			{From: "R1", To: "R2"},
			{From: "R2", To: "R3"},
			{From: "R3", To: "R4"},
		},
		Constraints: &circuit.Constraints{},
	}
	// R1 above R2 above R3, R4 to the right of R3.
	centers := map[string]circuit.Vec{
		"R1": {X: 0, Y: 0},
		"R2": {X: 0, Y: 100},
		"R3": {X: 0, Y: 200},
		"R4": {X: 200, Y: 200},
	}
	p, err := semanticWith(fakeEngine(centers, nil)).Layout(context.Background(), cfg)
	require.NoError(t, err)

	got := byID(t, p)
	assert.Equal(t, circuit.Rotate90, got["R1"].Rotation, "single vertical wire")
	assert.Equal(t, circuit.Rotate90, got["R2"].Rotation, "both wires vertical")
	assert.Equal(t, circuit.Rotate0, got["R3"].Rotation, "pinned horizontal")
	assert.Equal(t, circuit.Rotate0, got["R4"].Rotation, "horizontal wire")
}

func TestSemanticOrientationFollowsEngineRoute(t *testing.T) {
	cfg := circuit.Config{
		Components:  []circuit.Component{{ID: "C1", Type: circuit.KindCapacitor}, {ID: "R1", Type: circuit.KindResistor}},
		Connections: []circuit.Connection{{From: "C1", To: "R1"}},
		Constraints: &circuit.Constraints{},
	}
	// The centres are side by side but the routed wire leaves C1 downwards
	// and enters R1 from below.
	centers := map[string]circuit.Vec{"C1": {X: 0, Y: 0}, "R1": {X: 200, Y: 0}}
	routes := [][]circuit.Vec{{{X: 0, Y: 32}, {X: 0, Y: 80}, {X: 200, Y: 80}, {X: 200, Y: 32}}}

	p, err := semanticWith(fakeEngine(centers, routes)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)
	assert.Equal(t, circuit.Rotate90, got["C1"].Rotation)
	assert.Equal(t, circuit.Rotate90, got["R1"].Rotation)
	require.Len(t, p.Hints, 1)
	assert.Len(t, p.Hints[0], 2)
}

func TestSemanticDropsRouteEnteringBody(t *testing.T) {
	cfg := circuit.Config{
		Components:  []circuit.Component{{ID: "C1", Type: circuit.KindCapacitor}, {ID: "R1", Type: circuit.KindResistor}},
		Connections: []circuit.Connection{{From: "C1", To: "R1"}},
		Constraints: &circuit.Constraints{},
	}
	// The route leaves C1 from its centre, so its first bend sits inside
	// the turned capacitor, short of the bottom port at y=20.
	centers := map[string]circuit.Vec{"C1": {X: 0, Y: 0}, "R1": {X: 0, Y: 200}}
	routes := [][]circuit.Vec{{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 170}}}

	p, err := semanticWith(fakeEngine(centers, routes)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)
	assert.Equal(t, circuit.Rotate90, got["C1"].Rotation)
	assert.Equal(t, circuit.Rotate90, got["R1"].Rotation)
	assert.Nil(t, p.Hints[0])
}

func TestLeavesOutward(t *testing.T) {
	r := circuit.ResolvedComponent{ID: "R1", Type: circuit.KindResistor, Position: circuit.Point{X: 100, Y: 100}}
	turned := r
	turned.Rotation = circuit.Rotate90

	tests := []struct {
		name string
		c    circuit.ResolvedComponent
		hint circuit.Point
		want bool
	}{
		{"beyond right face", r, circuit.Point{X: 150, Y: 100}, true},
		{"on right face", r, circuit.Point{X: 130, Y: 140}, true},
		{"inside body", r, circuit.Point{X: 120, Y: 100}, false},
		{"beyond bottom face", turned, circuit.Point{X: 100, Y: 160}, true},
		{"beside turned body", turned, circuit.Point{X: 140, Y: 110}, false},
		{"node", circuit.ResolvedComponent{Type: circuit.KindNode, Position: circuit.Point{X: 0, Y: 0}}, circuit.Point{X: 1, Y: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leavesOutward(tt.c, tt.hint))
		})
	}
}

func TestSemanticGroundAtBottom(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource, Orientation: circuit.OrientationHorizontal},
			{ID: "R1", Type: circuit.KindResistor, Orientation: circuit.OrientationHorizontal},
			{ID: "GND", Type: circuit.KindGround, Role: circuit.RoleGround},
		},
		Connections: []circuit.Connection{
			{From: "V1", To: "R1"},
			{From: "R1", To: "GND"},
			{From: "GND", To: "V1"},
		},
		Constraints: &circuit.Constraints{GroundAtBottom: true},
	}
	centers := map[string]circuit.Vec{
		"V1":  {X: 0, Y: 0},
		"R1":  {X: 100, Y: 0},
		"GND": {X: 50, Y: -100},
	}
	routes := [][]circuit.Vec{
		{{X: 20, Y: 0}, {X: 50, Y: 0}, {X: 70, Y: 0}},
		{{X: 100, Y: -12}, {X: 100, Y: -100}, {X: 66, Y: -100}},
		nil,
	}

	p, err := semanticWith(fakeEngine(centers, routes)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)

	assert.Equal(t, circuit.Point{X: 60, Y: 60}, got["V1"].Position)
	assert.Equal(t, circuit.Point{X: 160, Y: 60}, got["R1"].Position)
	assert.Equal(t, circuit.Point{X: 110, Y: 94}, got["GND"].Position)

	assert.Equal(t, []circuit.Point{{X: 110, Y: 60}}, p.Hints[0], "unmoved wire keeps its bends")
	assert.Nil(t, p.Hints[1], "wire to a moved ground is rerouted")
	assert.Empty(t, Overlapping(p.Components, 0.5))
}

func TestSemanticSeveralGrounds(t *testing.T) {
	resistor := func(id string) circuit.Component {
		return circuit.Component{ID: id, Type: circuit.KindResistor, Orientation: circuit.OrientationHorizontal}
	}
	ground := func(id string) circuit.Component {
		return circuit.Component{ID: id, Type: circuit.KindGround, Role: circuit.RoleGround}
	}

	tests := []struct {
		name    string
		comps   []circuit.Component
		centers map[string]circuit.Vec
		moved   []string
	}{
		{
			// G2 clears the mean of the resistors (117.3) but not the mean
			// of everything else (127.2).
			name:  "separate columns",
			comps: []circuit.Component{resistor("R1"), resistor("R2"), resistor("R3"), ground("G1"), ground("G2"), ground("G3")},
			centers: map[string]circuit.Vec{
				"R1": {X: 0, Y: 102}, "R2": {X: 100, Y: 64}, "R3": {X: 200, Y: 186},
				"G1": {X: 300, Y: 144}, "G2": {X: 400, Y: 119}, "G3": {X: 500, Y: 140},
			},
			moved: []string{"G2"},
		},
		{
			name:  "stacked in one column",
			comps: []circuit.Component{resistor("R1"), resistor("R2"), ground("G1"), ground("G2")},
			centers: map[string]circuit.Vec{
				"R1": {X: 0, Y: 0}, "R2": {X: 100, Y: 200},
				"G1": {X: 0, Y: 40}, "G2": {X: 0, Y: 90},
			},
			moved: []string{"G1", "G2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := circuit.Config{
				Components:  tt.comps,
				Constraints: &circuit.Constraints{GroundAtBottom: true},
			}
			p, err := semanticWith(fakeEngine(tt.centers, nil)).Layout(context.Background(), cfg)
			require.NoError(t, err)
			got := byID(t, p)

			for _, g := range p.Components {
				if g.Role != circuit.RoleGround {
					continue
				}
				sum := 0
				for _, o := range p.Components {
					if o.ID != g.ID {
						sum += o.Position.Y
					}
				}
				mean := float64(sum) / float64(len(p.Components)-1)
				assert.GreaterOrEqual(t, float64(g.Position.Y), mean, "%s above the mean of all other parts", g.ID)
			}

			for _, id := range tt.moved {
				before := tt.centers[id].Y - tt.centers["R1"].Y
				after := got[id].Position.Y - got["R1"].Position.Y
				assert.Greater(t, float64(after), before, "%s should have moved down", id)
			}
			assert.Empty(t, Overlapping(p.Components, 0.5))
		})
	}
}

func TestSemanticGroundAlreadyLowIsKept(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "R1", Type: circuit.KindResistor, Orientation: circuit.OrientationHorizontal},
			{ID: "GND", Type: circuit.KindGround, Role: circuit.RoleGround},
		},
		Connections: []circuit.Connection{{From: "R1", To: "GND"}},
		Constraints: &circuit.Constraints{GroundAtBottom: true},
	}
	centers := map[string]circuit.Vec{"R1": {X: 0, Y: 0}, "GND": {X: 0, Y: 100}}
	routes := [][]circuit.Vec{{{X: 30, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 88}, {X: 0, Y: 88}}}

	p, err := semanticWith(fakeEngine(centers, routes)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)
	assert.Equal(t, got["R1"].Position.X, got["GND"].Position.X)
	assert.Equal(t, 100, got["GND"].Position.Y-got["R1"].Position.Y)
	assert.NotNil(t, p.Hints[0])
}

func TestSemanticFlowOrdering(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "IN", Type: circuit.KindVoltageSource, Role: circuit.RoleInput, Orientation: circuit.OrientationHorizontal},
			{ID: "R1", Type: circuit.KindResistor, Orientation: circuit.OrientationHorizontal},
			{ID: "OUT", Type: circuit.KindNode, Role: circuit.RoleOutput},
		},
		Connections: []circuit.Connection{{From: "IN", To: "R1"}, {From: "R1", To: "OUT"}},
		Constraints: &circuit.Constraints{FlowDirection: circuit.FlowLeftToRight},
	}
	centers := map[string]circuit.Vec{
		"IN":  {X: 200, Y: 0},
		"R1":  {X: 100, Y: 0},
		"OUT": {X: 0, Y: 0},
	}

	p, err := semanticWith(fakeEngine(centers, nil)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)

	assert.Equal(t, circuit.Point{X: 70, Y: 60}, got["R1"].Position)
	assert.Equal(t, circuit.Point{X: 170, Y: 60}, got["IN"].Position)
	assert.Equal(t, circuit.Point{X: 204, Y: 60}, got["OUT"].Position)
	assert.Less(t, got["IN"].Position.X, got["OUT"].Position.X)
	assert.Empty(t, Overlapping(p.Components, 0.5))
}

func TestSemanticFlowStacksOutputs(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "IN", Type: circuit.KindNode, Role: circuit.RoleInput},
			{ID: "O1", Type: circuit.KindNode, Role: circuit.RoleOutput},
			{ID: "O2", Type: circuit.KindNode, Role: circuit.RoleOutput},
		},
		Connections: []circuit.Connection{{From: "IN", To: "O1"}, {From: "IN", To: "O2"}},
		Constraints: &circuit.Constraints{FlowDirection: circuit.FlowLeftToRight},
	}
	centers := map[string]circuit.Vec{"IN": {X: 100, Y: 0}, "O1": {X: 0, Y: 0}, "O2": {X: 50, Y: 0}}

	p, err := semanticWith(fakeEngine(centers, nil)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	got := byID(t, p)
	assert.Less(t, got["IN"].Position.X, got["O1"].Position.X)
	assert.Less(t, got["IN"].Position.X, got["O2"].Position.X)
	assert.Empty(t, Overlapping(p.Components, 0.5))
}

func TestSemanticNormalizesToMargin(t *testing.T) {
	cfg := circuit.Config{
		Components:  []circuit.Component{{ID: "C1", Type: circuit.KindCapacitor}},
		Constraints: &circuit.Constraints{},
	}
	centers := map[string]circuit.Vec{"C1": {X: -512.3, Y: 977.6}}

	p, err := semanticWith(fakeEngine(centers, nil)).Layout(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, circuit.Point{X: DefaultMargin + 20, Y: DefaultMargin + 20}, p.Components[0].Position)
}

func TestSemanticFallsBackToMinimalLayout(t *testing.T) {
	var buf bytes.Buffer
	s := NewSemantic(Options{Logger: log.New(&buf)})
	s.engine = func(context.Context, circuit.Config, Options) (*engineResult, error) {
		return nil, fmt.Errorf("boom")
	}

	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource, Role: circuit.RoleInput},
			{ID: "R1", Type: circuit.KindResistor},
			{ID: "C1", Type: circuit.KindCapacitor},
		},
		Connections: []circuit.Connection{{From: "V1", To: "R1"}, {From: "R1", To: "C1"}},
	}
	p, err := s.Layout(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, p.Components, 3)

	assert.Contains(t, buf.String(), "minimal layout")
	assert.Contains(t, buf.String(), "boom")

	// one row in declaration order
	for i := 1; i < len(p.Components); i++ {
		assert.Equal(t, p.Components[0].Position.Y, p.Components[i].Position.Y)
		assert.Less(t, p.Components[i-1].Position.X, p.Components[i].Position.X)
	}
	assert.Empty(t, Overlapping(p.Components, 0.5))
	for _, h := range p.Hints {
		assert.Nil(t, h)
	}
}

func TestSemanticRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := circuit.Config{Components: []circuit.Component{{ID: "R1", Type: circuit.KindResistor}}}
	_, err := NewSemantic(Options{}).Layout(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSemanticEmpty(t *testing.T) {
	p, err := NewSemantic(Options{}).Layout(context.Background(), circuit.Config{})
	require.NoError(t, err)
	assert.NotNil(t, p.Components)
	assert.Empty(t, p.Components)
}

func TestMinimalLayoutIsDeterministic(t *testing.T) {
	cfg := circuit.Config{Components: []circuit.Component{
		{ID: "A", Type: circuit.KindResistor},
		{ID: "B", Type: circuit.KindGround},
		{ID: "C", Type: circuit.Kind("op-amp")},
	}}
	assert.Equal(t, minimalLayout(cfg), minimalLayout(cfg))
}
