package layout

import (
	"context"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// engineFunc computes provisional geometry for a sanitized config.
type engineFunc func(ctx context.Context, cfg circuit.Config, opts Options) (*engineResult, error)

// Semantic lays out diagrams that carry roles, orientation hints or
// constraints. Graphviz's layered layout produces provisional geometry which
// is then bent into schematic conventions by post-processing. When Graphviz
// fails the minimal single-row layout takes its place, so Layout only errors
// on context cancellation.
type Semantic struct {
	opts   Options
	engine engineFunc
}

// NewSemantic creates the semantic strategy.
func NewSemantic(opts Options) *Semantic {
	return &Semantic{opts: opts.WithDefaults(), engine: runEngine}
}

// Name implements [Strategy].
func (s *Semantic) Name() string { return StrategySemantic }

// Layout implements [Strategy].
func (s *Semantic) Layout(ctx context.Context, cfg circuit.Config) (*Placement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(cfg.Components) == 0 {
		return snapPlacement(StrategySemantic, nil, nil, cfg.Connections, nil, s.opts.Margin), nil
	}

	res, err := s.engine(ctx, cfg, s.opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.opts.Logger.Warn("engine layout failed, using minimal layout", "err", err, "components", len(cfg.Components))
		res = minimalLayout(cfg)
	}
	return postProcess(cfg, res, s.opts), nil
}

// minimalLayout places components in a single row in declaration order,
// vertically centred on a common axis. It has no routes.
func minimalLayout(cfg circuit.Config) *engineResult {
	res := &engineResult{
		centers: make(map[string]circuit.Vec, len(cfg.Components)),
		routes:  make([][]circuit.Vec, len(cfg.Connections)),
	}
	x := 0.0
	for _, c := range cfg.Components {
		s := engineSize(c)
		res.centers[c.ID] = circuit.Vec{X: x + float64(s.W)/2, Y: 0}
		x += float64(s.W) + DefaultRowGap
	}
	return res
}
