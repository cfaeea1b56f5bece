package sink

import (
	"encoding/json"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// RenderJSON serializes the compiled diagram: resolved components, routed
// connections and the canvas size. Nil slices are written as empty arrays so
// an empty diagram round-trips as {components:[], connections:[]}.
func RenderJSON(d *circuit.Diagram) ([]byte, error) {
	out := *d
	if out.Components == nil {
		out.Components = []circuit.ResolvedComponent{}
	}
	out.Connections = append([]circuit.ResolvedConnection{}, d.Connections...)
	for i := range out.Connections {
		if out.Connections[i].BendPoints == nil {
			out.Connections[i].BendPoints = []circuit.Point{}
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
