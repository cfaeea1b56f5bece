// Package render turns compiled circuit diagrams into output files.
//
// # Overview
//
// Rendering is split in three layers:
//
//   - Glyphs for individual components (in [symbol] subpackage)
//   - Whole-diagram sinks: SVG, JSON, PNG and PDF (in [sink] subpackage)
//   - Generic format conversion from SVG to PDF/PNG (this package)
//
// Rendering never changes geometry. Everything it draws comes from a
// circuit.Diagram whose positions, rotations and wire paths are final.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(diagram)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When the tool is missing both return an UNSUPPORTED error that explains
// how to install it.
//
// [symbol]: github.com/matzehuels/schematic/pkg/render/symbol
// [sink]: github.com/matzehuels/schematic/pkg/render/sink
package render
