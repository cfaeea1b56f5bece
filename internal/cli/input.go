package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/schematic/pkg/errors"
	"github.com/matzehuels/schematic/pkg/markdown"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// stdinPath reads the input from standard input.
const stdinPath = "-"

// readInput reads path, or stdin for "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "input not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// isMarkdown reports whether path names a markdown page rather than a
// diagram document.
func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// loadBlocks returns the diagram blocks of the input. A diagram document is
// a single block.
func loadBlocks(path string, data []byte) []markdown.Block {
	if isMarkdown(path) {
		return markdown.Extract(data)
	}
	return []markdown.Block{{Index: 0, Line: 1, Lang: markdown.LangDiagram, Raw: string(data)}}
}

// selectBlock returns the block with the given index.
func selectBlock(blocks []markdown.Block, index int) (markdown.Block, error) {
	if len(blocks) == 0 {
		return markdown.Block{}, errors.New(errors.ErrCodeDiagramNotFound, "no circuit-diagram blocks found")
	}
	if index < 0 || index >= len(blocks) {
		return markdown.Block{}, errors.New(errors.ErrCodeDiagramNotFound, "block %d out of range (found %d)", index, len(blocks))
	}
	return blocks[index], nil
}

// outputBase is the path outputs are derived from: the explicit output
// without its extension, or the input without its extension.
func outputBase(input, output string) string {
	switch {
	case output != "":
		return strings.TrimSuffix(output, filepath.Ext(output))
	case input == stdinPath:
		return "diagram"
	default:
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
}

// outputPath names one artifact. An explicit output is used verbatim when it
// is the only artifact; otherwise artifacts of several blocks get a 1-based
// block suffix. JSON artifacts use the .layout.json extension so they never
// overwrite a JSON input.
func outputPath(input, output string, block, blocks int, format string, formats int) string {
	if output != "" && blocks == 1 && formats == 1 {
		return output
	}
	base := outputBase(input, output)
	if blocks > 1 {
		base = fmt.Sprintf("%s-%d", base, block+1)
	}
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
