package symbol

import (
	"bytes"
	"encoding/xml"

	"github.com/matzehuels/schematic/pkg/errors"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme holds the colours and text metrics shared by every glyph.
type Theme struct {
	Name        string
	Background  string
	Stroke      string
	Fill        string // interior of closed glyphs (source circles, boxes)
	Text        string
	Muted       string // legend and annotation text
	StrokeWidth float64
	FontFamily  string
	FontSize    float64
}

// Light is the default theme: black ink on white.
var Light = Theme{
	Name:        ThemeLight,
	Background:  "#ffffff",
	Stroke:      "#1f2328",
	Fill:        "#ffffff",
	Text:        "#1f2328",
	Muted:       "#656d76",
	StrokeWidth: 2,
	FontFamily:  "Helvetica, Arial, sans-serif",
	FontSize:    12,
}

// Dark inverts the palette for dark pages.
var Dark = Theme{
	Name:        ThemeDark,
	Background:  "#0d1117",
	Stroke:      "#e6edf3",
	Fill:        "#0d1117",
	Text:        "#e6edf3",
	Muted:       "#8d96a0",
	StrokeWidth: 2,
	FontFamily:  "Helvetica, Arial, sans-serif",
	FontSize:    12,
}

// ThemeByName resolves a theme name; the empty name means [Light].
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", ThemeLight:
		return Light, nil
	case ThemeDark:
		return Dark, nil
	default:
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q", name)
	}
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
