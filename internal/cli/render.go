package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/markdown"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// renderCommand creates the render command for drawing diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags       pipelineFlags
		output      string
		block       int
		pick        bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.json|diagram.yaml|page.md|-]",
		Short: "Render circuit diagrams to SVG, PNG, PDF or JSON",
		Long: `Render circuit diagrams to SVG, PNG, PDF or JSON.

A diagram document produces one file per format. A markdown page produces one
file per diagram block and format, suffixed with the block number; blocks that
cannot be parsed are drawn as an error panel in their SVG output and the
remaining blocks are rendered normally.

PNG and PDF output need rsvg-convert on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, flags)
			opts.Concurrency = concurrency
			if err := errors.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			ro := renderRun{
				input:   args[0],
				output:  output,
				index:   -1,
				pick:    pick,
				noCache: flags.noCache,
			}
			if cmd.Flags().Changed("block") {
				ro.index = block - 1
			}
			return c.runRender(cmd, ro, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single diagram and format) or base path")
	cmd.Flags().IntVarP(&block, "block", "b", 1, "render only this diagram block of a markdown page (1-based)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the markdown block interactively")
	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 0, "diagrams rendered in parallel (default: number of CPUs)")
	flags.register(cmd, true)

	return cmd
}

type renderRun struct {
	input   string
	output  string
	index   int // -1 renders every block
	pick    bool
	noCache bool
}

// runRender renders the selected blocks and writes one file per block and
// format.
func (c *CLI) runRender(cmd *cobra.Command, ro renderRun, opts pipeline.Options) error {
	ctx := cmd.Context()
	data, err := readInput(ro.input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	blocks := loadBlocks(ro.input, data)
	if ro.index >= 0 || ro.pick {
		b, ok, err := chooseBlock(blocks, max(ro.index, 0), ro.pick)
		if err != nil || !ok {
			return err
		}
		blocks = []markdown.Block{b}
	}
	if len(blocks) == 0 {
		printWarning("No circuit-diagram blocks found in %s", ro.input)
		return nil
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d diagram(s)...", len(blocks)))
	spinner.Start()
	results := runner.ExecuteAll(ctx, blocks, opts)
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// A lone diagram document fails like any other command.
	if !isMarkdown(ro.input) && len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			printError("%s: %s", res.Block.Name(), errors.UserMessage(res.Err))
			path := outputPath(ro.input, ro.output, res.Block.Index, len(results), pipeline.FormatSVG, 1)
			if err := writeOutput(path, res.Panel); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printFile(path)
			continue
		}

		for _, format := range opts.Formats {
			path := outputPath(ro.input, ro.output, res.Block.Index, len(results), format, len(opts.Formats))
			if err := writeOutput(path, res.Result.Artifacts[format]); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printFile(path)
		}
		printStats(res.Result.Diagram, res.Result.CacheInfo.LayoutHit && res.Result.CacheInfo.RenderHit)
		printIssues(res.Result.Issues)
	}
	prog.done(fmt.Sprintf("Rendered %d diagram(s)", len(results)-failed))

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d diagram(s) could not be parsed", failed, len(results))
	}
	printSuccess("Render complete")
	return nil
}
