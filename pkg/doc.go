// Package pkg provides the core libraries for schematic circuit diagrams.
//
// # Overview
//
// Schematic turns a declarative description of an electronic circuit (parts,
// connections and optional layout hints) into a laid-out, wired and rendered
// diagram. The pkg directory is organized into these areas:
//
//  1. [circuit] - Domain model, document decoding and sanitizing
//  2. [netlist] - Connection graph with rank assignment and crossing counts
//  3. [layout] - Placement strategies (semantic, graphviz, fixed)
//  4. [route] - Orthogonal wire routing between component ports
//  5. [render] - SVG, JSON, PNG and PDF output
//  6. [pipeline] - Orchestration (parse → layout → render) with caching
//  7. [markdown] - Circuit-diagram block extraction from markdown pages
//  8. [cache], [config], [errors], [observability] - Infrastructure
//
// # Architecture
//
//	Diagram document (JSON/YAML) or markdown page
//	         ↓
//	    [circuit] package (decode + sanitize)
//	         ↓
//	    [layout] package (place components, uses [netlist])
//	         ↓
//	    [route] package (wire ports orthogonally)
//	         ↓
//	    [render] package (SVG/JSON, then PNG/PDF via rsvg-convert)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/schematic/pkg/cache"
//	    "github.com/matzehuels/schematic/pkg/pipeline"
//	)
//
//	cfg, err := pipeline.Parse(data)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, cfg, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	    Legend:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("circuit.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// Layout never fails on bad geometry. Unknown components, dangling
// connections and unresolvable ports are reported as issues on the result
// and the rest of the diagram is still drawn.
//
// [circuit]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/circuit
// [netlist]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/netlist
// [layout]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/layout
// [route]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/route
// [render]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/pipeline
// [markdown]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/markdown
// [cache]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/schematic/pkg/observability
package pkg
