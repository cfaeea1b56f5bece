package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/schematic/pkg/markdown"
)

// extractCommand creates the extract command for markdown pages.
func (c *CLI) extractCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "extract [page.md|-]",
		Short: "List or export the circuit-diagram blocks of a markdown page",
		Long: `List or export the circuit-diagram blocks of a markdown page.

Without --dir the blocks are listed with their line numbers and a summary of
their contents. With --dir every block is written to its own diagram document,
ready for 'layout' or 'render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			blocks := markdown.Extract(data)
			if len(blocks) == 0 {
				printWarning("No circuit-diagram blocks found in %s", args[0])
				return nil
			}
			if dir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), blockTable(blocks))
				return nil
			}
			return exportBlocks(args[0], dir, blocks)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "write each block to a file in this directory")
	return cmd
}

// blockTable renders a static summary table of blocks.
func blockTable(blocks []markdown.Block) string {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		s := summarize(b)
		contents := fmt.Sprintf("%d parts, %d wires", s.components, s.connections)
		if s.err != nil {
			contents = "invalid: " + firstLine(s.err.Error())
		}
		rows = append(rows, []string{fmt.Sprintf("#%d", b.Index+1), fmt.Sprintf("%d", b.Line), b.Lang, contents})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Block", "Line", "Lang", "Contents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func exportBlocks(input, dir string, blocks []markdown.Block) error {
	base := filepath.Base(outputBase(input, ""))
	for _, b := range blocks {
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.%s", base, b.Index+1, blockExt(b)))
		if err := writeOutput(path, []byte(b.Raw)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printSuccess("Extracted %d block(s)", len(blocks))
	return nil
}

// blockExt picks the file extension matching the block's encoding.
func blockExt(b markdown.Block) string {
	switch b.Lang {
	case markdown.LangJSON:
		return "json"
	case markdown.LangYAML, "yml":
		return "yaml"
	}
	if strings.HasPrefix(strings.TrimSpace(b.Raw), "{") {
		return "json"
	}
	return "yaml"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
