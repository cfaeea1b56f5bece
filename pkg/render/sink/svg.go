package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/render/symbol"
)

// Legend metrics.
const (
	legendLineHeight = 16
	legendPadding    = 12
	legendMaxItems   = 3 // components per legend line
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme      symbol.Theme
	legend     bool
	background bool
}

// WithTheme selects the colour theme (default [symbol.Light]).
func WithTheme(t symbol.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithLegend appends a footer with the input/output labels and the component
// list.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithoutBackground leaves the canvas transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// RenderSVG composes a diagram into a standalone SVG document. Layers are
// drawn bottom to top: background, wires, component symbols, annotations and
// the optional legend. The viewBox covers the diagram's width and height plus
// the legend.
func RenderSVG(d *circuit.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{theme: symbol.Light, background: true}
	for _, opt := range opts {
		opt(&r)
	}

	var legend []string
	if r.legend {
		legend = legendLines(d)
	}
	width, height := d.Width, d.Height
	if len(legend) > 0 {
		height += 2*legendPadding + len(legend)*legendLineHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	if r.background {
		fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
			width, height, r.theme.Background)
	}

	renderWires(&buf, d.Connections, r.theme)
	for _, c := range d.Components {
		symbol.Render(&buf, c, r.theme)
	}
	renderAnnotations(&buf, d.Annotations, r.theme)
	if len(legend) > 0 {
		renderLegend(&buf, legend, d.Height, r.theme)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWires(buf *bytes.Buffer, conns []circuit.ResolvedConnection, t symbol.Theme) {
	for _, c := range conns {
		path := c.Path()
		pts := make([]string, len(path))
		for i, p := range path {
			pts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
		}
		dash := ""
		if c.Style == circuit.WireDashed {
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(buf, `  <polyline class="wire" data-from="%s" data-to="%s" points="%s" fill="none" stroke="%s" stroke-width="%g"%s/>`+"\n",
			symbol.EscapeXML(c.From), symbol.EscapeXML(c.To), strings.Join(pts, " "), t.Stroke, t.StrokeWidth, dash)
	}
}

func renderAnnotations(buf *bytes.Buffer, anns []circuit.Annotation, t symbol.Theme) {
	for _, a := range anns {
		fmt.Fprintf(buf, `  <text class="annotation" x="%g" y="%g" font-family="%s" font-size="%g" font-style="italic" fill="%s">%s</text>`+"\n",
			a.X, a.Y, t.FontFamily, t.FontSize, t.Muted, symbol.EscapeXML(a.Text))
	}
}

// legendLines summarises the diagram: one line for the input/output labels,
// then the components with their values.
func legendLines(d *circuit.Diagram) []string {
	var lines []string
	var io []string
	if d.InputLabel != "" {
		io = append(io, "Input: "+d.InputLabel)
	}
	if d.OutputLabel != "" {
		io = append(io, "Output: "+d.OutputLabel)
	}
	if len(io) > 0 {
		lines = append(lines, strings.Join(io, "   "))
	}

	var items []string
	for _, c := range d.Components {
		if c.Type == circuit.KindNode || c.Type == circuit.KindGround {
			continue
		}
		name := c.Label
		if name == "" {
			name = c.ID
		}
		item := name + " (" + string(c.Type)
		if c.Value != "" {
			item += ", " + c.Value
		}
		items = append(items, item+")")
	}
	for len(items) > 0 {
		n := min(legendMaxItems, len(items))
		lines = append(lines, strings.Join(items[:n], "   "))
		items = items[n:]
	}
	return lines
}

func renderLegend(buf *bytes.Buffer, lines []string, top int, t symbol.Theme) {
	fmt.Fprintf(buf, `  <g class="legend" font-family="%s" font-size="%g" fill="%s">`+"\n", t.FontFamily, t.FontSize, t.Muted)
	for i, line := range lines {
		y := top + legendPadding + (i+1)*legendLineHeight - 4
		fmt.Fprintf(buf, `    <text x="%d" y="%d">%s</text>`+"\n", legendPadding, y, symbol.EscapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

// Error panel metrics.
const (
	panelCharWidth = 7
	panelMinWidth  = 320
	panelMaxLines  = 24
)

// RenderErrorSVG draws the inline error panel shown in place of a diagram
// whose block could not be decoded: the message followed by the offending
// raw text, one line per source line.
func RenderErrorSVG(message, raw string, opts ...SVGOption) []byte {
	r := svgRenderer{theme: symbol.Light, background: true}
	for _, opt := range opts {
		opt(&r)
	}

	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) > panelMaxLines {
		lines = append(lines[:panelMaxLines], "…")
	}
	longest := len([]rune(message))
	for _, l := range lines {
		longest = max(longest, len([]rune(l)))
	}
	width := max(panelMinWidth, longest*panelCharWidth+2*legendPadding)
	height := 2*legendPadding + (len(lines)+2)*legendLineHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect class="error-panel" x="0.5" y="0.5" width="%d" height="%d" fill="%s" stroke="%s" stroke-dasharray="4 2"/>`+"\n",
		width-1, height-1, r.theme.Background, errorColor)
	fmt.Fprintf(&buf, `  <text class="error-message" x="%d" y="%d" font-family="%s" font-size="%g" font-weight="bold" fill="%s">%s</text>`+"\n",
		legendPadding, legendPadding+legendLineHeight-4, r.theme.FontFamily, r.theme.FontSize, errorColor, symbol.EscapeXML(message))
	fmt.Fprintf(&buf, `  <g class="error-source" font-family="monospace" font-size="%g" fill="%s">`+"\n", r.theme.FontSize, r.theme.Text)
	for i, l := range lines {
		y := legendPadding + (i+3)*legendLineHeight - 4
		fmt.Fprintf(&buf, `    <text x="%d" y="%d" xml:space="preserve">%s</text>`+"\n", legendPadding, y, symbol.EscapeXML(l))
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

const errorColor = "#c0392b"
