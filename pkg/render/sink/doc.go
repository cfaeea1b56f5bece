// Package sink writes compiled circuit diagrams in their output formats.
//
// Supported formats:
//   - SVG: standalone vector document ([RenderSVG])
//   - JSON: the resolved diagram for other renderers ([RenderJSON])
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// Blocks that fail to decode are drawn as an inline error panel by
// [RenderErrorSVG].
//
// # SVG
//
// The SVG sink stacks layers in a fixed order so that components always sit
// on top of their wires:
//
//  1. background (unless [WithoutBackground])
//  2. wires as polylines, dashed for dashed connections
//  3. component symbols from the symbol package
//  4. free-text annotations
//  5. the legend footer ([WithLegend]) with input/output labels and parts
//
// For example:
//
//	svg := sink.RenderSVG(diagram, sink.WithTheme(symbol.Dark), sink.WithLegend())
//
// # PDF and PNG
//
// These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package sink
