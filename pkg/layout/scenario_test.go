package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// These run the real Graphviz engine. The assertions hold whether Graphviz
// succeeds or the minimal fallback takes over.

var schematicConventions = &circuit.Constraints{
	FlowDirection:  circuit.FlowLeftToRight,
	GroundAtBottom: true,
}

func assertConventions(t *testing.T, p *Placement) {
	t.Helper()
	assert.Empty(t, Overlapping(p.Components, 0.5), "overlapping components")
	assert.Less(t, Sparsity(p.Components), 50.0)

	var sum float64
	var others int
	for _, c := range p.Components {
		assert.GreaterOrEqual(t, c.Position.X, 0)
		assert.GreaterOrEqual(t, c.Position.Y, 0)
		if c.Role != circuit.RoleGround {
			sum += float64(c.Position.Y)
			others++
		}
	}
	for _, c := range p.Components {
		if c.Role == circuit.RoleGround && others > 0 {
			assert.GreaterOrEqual(t, float64(c.Position.Y), sum/float64(others), "ground %s above the mean", c.ID)
		}
	}
}

func TestScenarioRCCircuit(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource, Role: circuit.RoleInput},
			{ID: "R1", Type: circuit.KindResistor, Value: "1k"},
			{ID: "C1", Type: circuit.KindCapacitor, Value: "100n"},
			{ID: "GND", Type: circuit.KindGround, Role: circuit.RoleGround},
		},
		Connections: []circuit.Connection{
			{From: "V1", To: "R1"},
			{From: "R1", To: "C1"},
			{From: "C1", To: "GND"},
		},
		Constraints: schematicConventions,
	}

	p, err := NewSemantic(Options{}).Layout(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, p.Components, 4)
	assertConventions(t, p)
}

func TestScenarioTwoStageLadder(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource},
			{ID: "R1", Type: circuit.KindResistor},
			{ID: "C1", Type: circuit.KindCapacitor},
			{ID: "R2", Type: circuit.KindResistor},
			{ID: "C2", Type: circuit.KindCapacitor},
			{ID: "OUT", Type: circuit.KindNode, Role: circuit.RoleOutput},
			{ID: "GND", Type: circuit.KindGround, Role: circuit.RoleGround},
		},
		Connections: []circuit.Connection{
			{From: "V1", To: "R1"},
			{From: "R1", To: "C1"},
			{From: "R1", To: "R2"},
			{From: "R2", To: "C2"},
			{From: "R2", To: "OUT"},
			{From: "C1", To: "GND"},
			{From: "C2", To: "GND"},
		},
		Constraints: schematicConventions,
	}

	p, err := NewSemantic(Options{}).Layout(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, p.Components, 7)
	assertConventions(t, p)

	got := byID(t, p)
	assert.Less(t, got["V1"].Position.X, got["OUT"].Position.X)
}

func TestScenarioGridConstraint(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "R1", Type: circuit.KindResistor},
			{ID: "C1", Type: circuit.KindCapacitor},
		},
		Connections: []circuit.Connection{{From: "R1", To: "C1"}},
		Constraints: &circuit.Constraints{GridSize: 20},
	}
	p, err := NewSemantic(Options{}).Layout(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, p.Components, 2)
	assert.Empty(t, Overlapping(p.Components, 0.5))
}

func TestScenarioDanglingConnection(t *testing.T) {
	raw := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource, Role: circuit.RoleInput},
			{ID: "R1", Type: circuit.KindResistor},
		},
		Connections: []circuit.Connection{
			{From: "V1", To: "R1"},
			{From: "R1", To: "R9"},
		},
	}
	cfg, issues := circuit.Sanitize(raw)
	require.Len(t, issues, 1)
	assert.Equal(t, circuit.IssueDangling, issues[0].Kind)

	p, err := Select(cfg, Options{}).Layout(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, p.Components, 2)
	assert.Len(t, p.Hints, 1)
}

func TestSemanticConcurrentLayouts(t *testing.T) {
	cfg := circuit.Config{
		Components: []circuit.Component{
			{ID: "V1", Type: circuit.KindVoltageSource, Role: circuit.RoleInput},
			{ID: "R1", Type: circuit.KindResistor},
			{ID: "GND", Type: circuit.KindGround, Role: circuit.RoleGround},
		},
		Connections: []circuit.Connection{{From: "V1", To: "R1"}, {From: "R1", To: "GND"}},
		Constraints: schematicConventions,
	}
	s := NewSemantic(Options{})

	const n = 4
	results := make(chan *Placement, n)
	for i := 0; i < n; i++ {
		go func() {
			p, err := s.Layout(context.Background(), cfg)
			if err != nil {
				results <- nil
				return
			}
			results <- p
		}()
	}
	var first *Placement
	for i := 0; i < n; i++ {
		p := <-results
		require.NotNil(t, p)
		if first == nil {
			first = p
			continue
		}
		assert.Equal(t, first.Components, p.Components)
	}
}
