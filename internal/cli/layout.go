package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/markdown"
	"github.com/matzehuels/schematic/pkg/pipeline"
	"github.com/matzehuels/schematic/pkg/render/sink"
)

// layoutCommand creates the layout command for compiling diagrams.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
		block  int
		pick   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram.json|diagram.yaml|page.md|-]",
		Short: "Compute the layout of a circuit diagram",
		Long: `Compute the layout of a circuit diagram.

The layout command places every component, routes every connection onto
component terminals and writes the resolved geometry as JSON (the same
document as 'render -f json').

For markdown pages, --block selects a diagram by its 1-based position and
--pick chooses one interactively.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, flags)
			return c.runLayout(cmd, args[0], opts, output, block-1, pick, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().IntVarP(&block, "block", "b", 1, "diagram block of a markdown page (1-based)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the markdown block interactively")
	flags.register(cmd, false)

	return cmd
}

// runLayout compiles one diagram and writes its resolved geometry.
func (c *CLI) runLayout(cmd *cobra.Command, input string, opts pipeline.Options, output string, index int, pick, noCache bool) error {
	ctx := cmd.Context()
	data, err := readInput(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	b, ok, err := chooseBlock(loadBlocks(input, data), index, pick)
	if err != nil || !ok {
		return err
	}
	cfg, err := pipeline.Parse([]byte(b.Raw))
	if err != nil {
		return fmt.Errorf("%s: %w", b.Name(), err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	d, issues, cacheHit, err := runner.LayoutWithCacheInfo(ctx, cfg, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	doc, err := sink.RenderJSON(d)
	if err != nil {
		return err
	}
	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(input, "") + ".layout.json"
	}
	if err := writeOutput(outputPath, doc); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(d, cacheHit)
	printIssues(issues)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// chooseBlock returns the block at index, or lets the user pick one when
// pick is set and the page holds more than one block.
func chooseBlock(blocks []markdown.Block, index int, pick bool) (markdown.Block, bool, error) {
	if pick && len(blocks) > 1 {
		b, ok, err := pickBlock(blocks)
		if err != nil {
			return markdown.Block{}, false, fmt.Errorf("block picker: %w", err)
		}
		if !ok {
			printInfo("No diagram selected")
		}
		return b, ok, nil
	}
	b, err := selectBlock(blocks, index)
	return b, err == nil, err
}
