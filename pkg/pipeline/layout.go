package pipeline

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/observability"
	"github.com/matzehuels/schematic/pkg/route"
)

// annotationCharWidth approximates the advance of one annotation character
// when sizing the canvas.
const annotationCharWidth = 7

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout compiles a config into a render-ready diagram:
//
//  1. sanitize the config, recording recovered issues
//  2. place the components with the chosen strategy
//  3. route every connection onto component ports
//  4. size the canvas to cover components, wires and annotations plus margin
//
// Errors are limited to an unknown strategy name and context cancellation.
func GenerateLayout(ctx context.Context, cfg circuit.Config, opts Options) (*circuit.Diagram, []circuit.Issue, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}

	clean, issues := circuit.Sanitize(cfg)
	lopts := opts.LayoutOptions()
	strategy, err := layout.ByName(opts.Strategy, clean, lopts)
	if err != nil {
		return nil, nil, err
	}

	placement, err := strategy.Layout(ctx, clean)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "%s layout", strategy.Name())
	}

	conns, routeIssues := route.ResolveAll(placement.Components, clean.Connections, placement.Hints)
	issues = append(issues, routeIssues...)
	observability.Pipeline().OnRouteComplete(ctx, len(conns), len(routeIssues))

	d := &circuit.Diagram{
		Components:  placement.Components,
		Connections: conns,
		Annotations: clean.Annotations,
		InputLabel:  clean.InputLabel,
		OutputLabel: clean.OutputLabel,
		Strategy:    placement.Strategy,
	}
	d.Width, d.Height = canvasSize(d, lopts.Margin)

	for _, is := range issues {
		opts.Logger.Warn("recovered input issue", "issue", is.String())
	}
	opts.Logger.Debug("layout quality",
		"strategy", placement.Strategy,
		"overlaps", len(layout.Overlapping(d.Components, 0)),
		"sparsity", layout.Sparsity(d.Components))

	return d, issues, nil
}

// canvasSize returns the drawing size: the far edge of every component box,
// wire point and annotation plus the margin. An empty diagram is a blank
// canvas of twice the margin.
func canvasSize(d *circuit.Diagram, margin int) (int, int) {
	var maxX, maxY float64
	for _, c := range d.Components {
		b := circuit.Bounds(c)
		maxX, maxY = math.Max(maxX, b.MaxX), math.Max(maxY, b.MaxY)
	}
	for _, c := range d.Connections {
		for _, p := range c.Path() {
			maxX, maxY = math.Max(maxX, float64(p.X)), math.Max(maxY, float64(p.Y))
		}
	}
	for _, a := range d.Annotations {
		w := float64(utf8.RuneCountInString(a.Text) * annotationCharWidth)
		maxX, maxY = math.Max(maxX, a.X+w), math.Max(maxY, a.Y)
	}
	if maxX == 0 && maxY == 0 {
		return 2 * margin, 2 * margin
	}
	return int(math.Ceil(maxX)) + margin, int(math.Ceil(maxY)) + margin
}
