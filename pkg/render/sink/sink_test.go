package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/render"
	"github.com/matzehuels/schematic/pkg/render/symbol"
)

func testDiagram() *circuit.Diagram {
	return &circuit.Diagram{
		Components: []circuit.ResolvedComponent{
			{ID: "V1", Type: circuit.KindVoltageSource, Position: circuit.Point{X: 60, Y: 60}, Label: "V1", Value: "5V", Role: circuit.RoleInput},
			{ID: "R1", Type: circuit.KindResistor, Position: circuit.Point{X: 160, Y: 60}, Label: "R1", Value: "1k"},
			{ID: "GND", Type: circuit.KindGround, Position: circuit.Point{X: 110, Y: 140}, Role: circuit.RoleGround},
		},
		Connections: []circuit.ResolvedConnection{
			{From: "V1", To: "R1", StartPoint: circuit.Point{X: 80, Y: 60}, EndPoint: circuit.Point{X: 130, Y: 60}, BendPoints: []circuit.Point{}},
			{From: "R1", To: "GND", Style: circuit.WireDashed, StartPoint: circuit.Point{X: 190, Y: 60}, EndPoint: circuit.Point{X: 110, Y: 128},
				BendPoints: []circuit.Point{{X: 190, Y: 100}, {X: 110, Y: 100}}},
		},
		Annotations: []circuit.Annotation{{X: 20, Y: 180, Text: "f = 1/(2πRC)"}},
		InputLabel:  "Vin",
		OutputLabel: "Vout",
		Width:       240,
		Height:      200,
	}
}

func TestRenderSVGLayers(t *testing.T) {
	svg := string(RenderSVG(testDiagram()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 240 200"`) {
		t.Errorf("unexpected header: %.120s", svg)
	}
	wire := strings.Index(svg, "<polyline")
	comp := strings.Index(svg, `<g id="comp-`)
	ann := strings.Index(svg, `class="annotation"`)
	if wire < 0 || comp < 0 || ann < 0 {
		t.Fatalf("missing layer (wire=%d comp=%d annotation=%d)", wire, comp, ann)
	}
	if !(wire < comp && comp < ann) {
		t.Errorf("layers out of order: wire=%d comp=%d annotation=%d", wire, comp, ann)
	}
	if got := strings.Count(svg, "<polyline"); got != 2 {
		t.Errorf("wires = %d, want 2", got)
	}
	if !strings.Contains(svg, `points="190,60 190,100 110,100 110,128"`) {
		t.Errorf("bend points not drawn:\n%s", svg)
	}
	if strings.Count(svg, "stroke-dasharray=\"6 4\"") != 1 {
		t.Errorf("expected exactly one dashed wire")
	}
	if strings.Contains(svg, `class="legend"`) {
		t.Errorf("legend drawn without WithLegend")
	}
}

func TestRenderSVGLegend(t *testing.T) {
	svg := string(RenderSVG(testDiagram(), WithLegend()))
	if !strings.Contains(svg, `viewBox="0 0 240 256"`) {
		t.Errorf("legend height not added: %.120s", svg)
	}
	for _, want := range []string{"Input: Vin", "Output: Vout", "V1 (voltage-source, 5V)", "R1 (resistor, 1k)"} {
		if !strings.Contains(svg, want) {
			t.Errorf("legend missing %q", want)
		}
	}
	if strings.Contains(svg, "GND (ground") {
		t.Errorf("ground should not be listed in the legend")
	}
}

func TestRenderSVGTheme(t *testing.T) {
	svg := string(RenderSVG(testDiagram(), WithTheme(symbol.Dark)))
	if !strings.Contains(svg, `fill="`+symbol.Dark.Background+`"`) {
		t.Errorf("dark background missing")
	}
	if !strings.Contains(svg, `stroke="`+symbol.Dark.Stroke+`"`) {
		t.Errorf("dark stroke missing")
	}

	svg = string(RenderSVG(testDiagram(), WithoutBackground()))
	if strings.Contains(svg, `class="background"`) {
		t.Errorf("background drawn despite WithoutBackground")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(&circuit.Diagram{}))
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("empty diagram not a complete document: %q", svg)
	}
}

func TestRenderJSON(t *testing.T) {
	d := testDiagram()
	data, err := RenderJSON(d)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out circuit.Diagram
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if len(out.Components) != 3 || len(out.Connections) != 2 {
		t.Errorf("got %d components, %d connections", len(out.Components), len(out.Connections))
	}
	if out.Width != 240 || out.Height != 200 {
		t.Errorf("size = %dx%d, want 240x200", out.Width, out.Height)
	}
	if out.Connections[1].Style != circuit.WireDashed {
		t.Errorf("style lost: %q", out.Connections[1].Style)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(&circuit.Diagram{})
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if string(raw["components"]) != "[]" || string(raw["connections"]) != "[]" {
		t.Errorf("empty diagram = %s", data)
	}
}

func TestRenderJSONDoesNotMutateInput(t *testing.T) {
	d := &circuit.Diagram{Connections: []circuit.ResolvedConnection{{From: "a", To: "b"}}}
	if _, err := RenderJSON(d); err != nil {
		t.Fatal(err)
	}
	if d.Connections[0].BendPoints != nil {
		t.Errorf("RenderJSON modified its input")
	}
}

func TestRasterWithoutConverter(t *testing.T) {
	if render.ConverterAvailable() {
		t.Skip("rsvg-convert installed")
	}
	_, err := RenderPNG(context.Background(), testDiagram())
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RenderPNG error = %v, want UNSUPPORTED", err)
	}
	_, err = RenderPDF(context.Background(), testDiagram())
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RenderPDF error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderErrorSVG(t *testing.T) {
	raw := "{\"type\": \"circuit-diagram\",\n  \"config\": {<oops>\n"
	svg := string(RenderErrorSVG("parse diagram JSON: unexpected end", raw))

	if !strings.Contains(svg, `class="error-panel"`) {
		t.Fatalf("panel missing:\n%s", svg)
	}
	if !strings.Contains(svg, "parse diagram JSON: unexpected end") {
		t.Errorf("message missing")
	}
	if !strings.Contains(svg, "  &#34;config&#34;: {&lt;oops&gt;") {
		t.Errorf("raw text not escaped line by line:\n%s", svg)
	}
	if got := strings.Count(svg, `xml:space="preserve"`); got != 2 {
		t.Errorf("source lines = %d, want 2", got)
	}
	if !strings.Contains(svg, `viewBox="0 0 320 88"`) {
		t.Errorf("unexpected size: %.120s", svg)
	}
}
