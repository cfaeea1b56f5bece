// Package markdown finds circuit diagrams embedded in markdown documents.
//
// A diagram is a fenced code block whose info string is "circuit-diagram",
// or a "json"/"yaml" block whose document declares
// type: "circuit-diagram". Blocks are returned with their raw text so that a
// block that fails to decode can be shown as an inline error panel next to
// the diagrams that did decode.
package markdown

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/schematic/pkg/circuit"
)

// Fence info strings recognised as diagram blocks.
const (
	LangDiagram = circuit.BlockType
	LangJSON    = "json"
	LangYAML    = "yaml"
)

// Block is a fenced diagram block.
type Block struct {
	// Index is the position among the diagram blocks of the document.
	Index int
	// Line is the 1-based line of the opening fence.
	Line int
	// Lang is the fence info string.
	Lang string
	// Raw is the block content without the fences.
	Raw string
}

// Name returns a short label for pickers and log lines.
func (b Block) Name() string {
	return b.Lang + " block at line " + strconv.Itoa(b.Line)
}

// Extract returns the diagram blocks of src in document order. Unterminated
// fences run to the end of the document, as in CommonMark.
func Extract(src []byte) []Block {
	var (
		blocks []Block
		open   *Block
		fence  string
		body   strings.Builder
	)

	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimLeft(text, " ")
		indent := len(text) - len(trimmed)

		if open == nil {
			marker, info, ok := openFence(trimmed)
			if !ok || indent > 3 {
				continue
			}
			open = &Block{Line: line, Lang: info}
			fence = marker
			body.Reset()
			continue
		}

		if indent <= 3 && closesFence(trimmed, fence) {
			if b, ok := accept(*open, body.String()); ok {
				b.Index = len(blocks)
				blocks = append(blocks, b)
			}
			open = nil
			continue
		}
		body.WriteString(text)
		body.WriteByte('\n')
	}
	if open != nil {
		if b, ok := accept(*open, body.String()); ok {
			b.Index = len(blocks)
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// openFence reports whether line opens a fence and returns the fence marker
// and the first word of the info string.
func openFence(line string) (marker, info string, ok bool) {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == ch {
			n++
		}
		if n < 3 {
			continue
		}
		rest := strings.TrimSpace(line[n:])
		if ch == '`' && strings.Contains(rest, "`") {
			return "", "", false
		}
		if f := strings.Fields(rest); len(f) > 0 {
			info = strings.ToLower(f[0])
		}
		return line[:n], info, true
	}
	return "", "", false
}

func closesFence(line, marker string) bool {
	if !strings.HasPrefix(line, marker) {
		return false
	}
	rest := strings.TrimLeft(line, marker[:1])
	return strings.TrimSpace(rest) == ""
}

// accept keeps diagram-tagged blocks unconditionally and generic JSON/YAML
// blocks only when they declare the diagram type.
func accept(b Block, raw string) (Block, bool) {
	b.Raw = raw
	switch b.Lang {
	case LangDiagram:
		return b, true
	case LangJSON, LangYAML, "yml":
		return b, declaresDiagram(b.Lang, raw)
	default:
		return b, false
	}
}

func declaresDiagram(lang, raw string) bool {
	var head struct {
		Type string `json:"type" yaml:"type"`
	}
	var err error
	if lang == LangJSON {
		err = json.Unmarshal([]byte(raw), &head)
	} else {
		err = yaml.Unmarshal([]byte(raw), &head)
	}
	return err == nil && head.Type == circuit.BlockType
}
