package symbol

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// labelGap is the distance between a symbol's box and its label.
const labelGap = 6

// Render writes the SVG for one placed component: a group translated to the
// component centre and rotated by its rotation, followed by the upright
// label. Glyphs are drawn inside the kind's unrotated box, so the terminals
// end exactly on the port offsets. Render never alters geometry.
func Render(buf *bytes.Buffer, c circuit.ResolvedComponent, t Theme) {
	fmt.Fprintf(buf, `  <g id="comp-%s" class="component %s" transform="translate(%d %d) rotate(%d)" stroke="%s" stroke-width="%g" fill="none" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		EscapeXML(c.ID), kindClass(c.Type), c.Position.X, c.Position.Y, int(c.Rotation.Normalize()), t.Stroke, t.StrokeWidth)
	renderGlyph(buf, c.Type, t)
	buf.WriteString("  </g>\n")

	if !c.Type.Known() {
		fmt.Fprintf(buf, `  <text x="%d" y="%d" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%g" fill="%s">%s</text>`+"\n",
			c.Position.X, c.Position.Y, t.FontFamily, t.FontSize*0.75, t.Muted, EscapeXML(abbrev(string(c.Type))))
	}
	renderLabel(buf, c, t)
}

func kindClass(k circuit.Kind) string {
	if k.Known() {
		return "kind-" + string(k)
	}
	return "kind-unknown"
}

func abbrev(s string) string {
	r := []rune(s)
	if len(r) > 6 {
		return string(r[:5]) + "…"
	}
	return s
}

// renderGlyph draws the unrotated symbol centred on the origin.
func renderGlyph(buf *bytes.Buffer, k circuit.Kind, t Theme) {
	s := k.Size()
	hw, hh := s.W/2, s.H/2
	path := func(d string) { fmt.Fprintf(buf, `    <path d="%s"/>`+"\n", d) }
	lead := func(inner int) {
		path(fmt.Sprintf("M %d 0 H %d M %d 0 H %d", -hw, -inner, inner, hw))
	}

	switch k {
	case circuit.KindResistor:
		lead(18)
		path("M -18 0 L -15 -8 L -9 8 L -3 -8 L 3 8 L 9 -8 L 15 8 L 18 0")

	case circuit.KindCapacitor:
		lead(4)
		path("M -4 -14 V 14 M 4 -14 V 14")

	case circuit.KindInductor:
		lead(24)
		path("M -24 0 a 6 6 0 0 1 12 0 a 6 6 0 0 1 12 0 a 6 6 0 0 1 12 0 a 6 6 0 0 1 12 0")

	case circuit.KindVoltageSource:
		lead(14)
		fmt.Fprintf(buf, `    <circle cx="0" cy="0" r="14" fill="%s"/>`+"\n", t.Fill)
		// + on the first terminal's side
		path("M -10 0 H -4 M -7 -3 V 3 M 4 0 H 10")

	case circuit.KindCurrentSource:
		lead(14)
		fmt.Fprintf(buf, `    <circle cx="0" cy="0" r="14" fill="%s"/>`+"\n", t.Fill)
		path("M -8 0 H 8 M 4 -4 L 8 0 L 4 4")

	case circuit.KindDiode:
		lead(8)
		fmt.Fprintf(buf, `    <path d="M -8 -10 L -8 10 L 8 0 Z" fill="%s"/>`+"\n", t.Fill)
		path("M 8 -10 V 10")

	case circuit.KindSwitch:
		lead(14)
		fmt.Fprintf(buf, `    <circle cx="-14" cy="0" r="2" fill="%s"/>`+"\n", t.Stroke)
		fmt.Fprintf(buf, `    <circle cx="14" cy="0" r="2" fill="%s"/>`+"\n", t.Stroke)
		path("M -14 0 L 12 -12")

	case circuit.KindGround:
		path(fmt.Sprintf("M 0 %d V -2", -hh))
		path(fmt.Sprintf("M %d -2 H %d M -10 4 H 10 M -4 10 H 4", -hw, hw))

	case circuit.KindNode:
		fmt.Fprintf(buf, `    <circle cx="0" cy="0" r="%d" fill="%s" stroke="none"/>`+"\n", hw, t.Stroke)

	default:
		fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke-dasharray="4 3"/>`+"\n",
			-hw, -hh, s.W, s.H, t.Fill)
	}
}

// renderLabel writes "label value" upright: above horizontal symbols, to the
// right of vertical ones and nodes.
func renderLabel(buf *bytes.Buffer, c circuit.ResolvedComponent, t Theme) {
	text := c.Label
	if c.Value != "" {
		if text != "" {
			text += " "
		}
		text += c.Value
	}
	if text == "" {
		return
	}

	box := circuit.Bounds(c)
	var (
		x, y   float64
		anchor string
	)
	switch {
	case c.Type == circuit.KindNode:
		x, y, anchor = box.MaxX+labelGap/2, box.MinY-labelGap/2, "start"
	case c.Rotation.Vertical():
		x, y, anchor = box.MaxX+labelGap, float64(c.Position.Y), "start"
	case c.Type == circuit.KindGround:
		x, y, anchor = box.MaxX+labelGap, box.MaxY, "start"
	default:
		x, y, anchor = float64(c.Position.X), box.MinY-labelGap, "middle"
	}
	fmt.Fprintf(buf, `  <text x="%g" y="%g" text-anchor="%s" font-family="%s" font-size="%g" fill="%s">%s</text>`+"\n",
		x, y, anchor, t.FontFamily, t.FontSize, t.Text, EscapeXML(text))
}
