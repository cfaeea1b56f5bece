package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/schematic/pkg/markdown"
)

// BlockResult is the outcome of one diagram block of a page. Exactly one of
// Result and Err is set; a failed block carries an error panel instead.
type BlockResult struct {
	Block  markdown.Block
	Result *Result
	Err    error

	// Panel is the inline error panel SVG for a failed block.
	Panel []byte
}

// ExecuteAll parses and renders every block concurrently. A block that fails
// never affects its siblings: its BlockResult holds the error and an error
// panel showing the raw text. Results are in block order.
func (r *Runner) ExecuteAll(ctx context.Context, blocks []markdown.Block, opts Options) []BlockResult {
	r.applyLogger(&opts)
	results := make([]BlockResult, len(blocks))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, b := range blocks {
		g.Go(func() error {
			results[i] = r.executeBlock(ctx, b, opts)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) executeBlock(ctx context.Context, b markdown.Block, opts Options) BlockResult {
	res := BlockResult{Block: b}
	fail := func(err error) BlockResult {
		res.Err = err
		res.Panel = RenderError(err, b.Raw, opts)
		r.Logger.Warn("diagram failed", "block", b.Name(), "err", err)
		return res
	}

	cfg, err := Parse([]byte(b.Raw))
	if err != nil {
		return fail(err)
	}
	result, err := r.Execute(ctx, cfg, opts)
	if err != nil {
		return fail(err)
	}
	res.Result = result
	return res
}
