package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/markdown"
	"github.com/matzehuels/schematic/pkg/pipeline"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// BlockListModel - Interactive diagram block selection
// =============================================================================

// blockSummary is one picker row.
type blockSummary struct {
	block       markdown.Block
	components  int
	connections int
	err         error
}

func summarize(b markdown.Block) blockSummary {
	s := blockSummary{block: b}
	var cfg circuit.Config
	cfg, s.err = pipeline.Parse([]byte(b.Raw))
	s.components = len(cfg.Components)
	s.connections = len(cfg.Connections)
	return s
}

// BlockListModel is the bubbletea model for picking one diagram block of a
// markdown page.
type BlockListModel struct {
	Blocks   []blockSummary
	Cursor   int
	Selected *markdown.Block
	Height   int
	Offset   int
}

// NewBlockListModel creates a picker over blocks.
func NewBlockListModel(blocks []markdown.Block) BlockListModel {
	m := BlockListModel{Height: 15}
	for _, b := range blocks {
		m.Blocks = append(m.Blocks, summarize(b))
	}
	return m
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Blocks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Blocks) == 0 {
				return m, tea.Quit
			}
			b := m.Blocks[m.Cursor].block
			m.Selected = &b
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m BlockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Blocks))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Blocks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := fmt.Sprintf("%d parts, %d wires", s.components, s.connections)
		if s.err != nil {
			status = "invalid"
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("#%d", i+1), fmt.Sprintf("%d", s.block.Line), s.block.Lang, status})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Block", "Line", "Lang", "Contents").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Blocks) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Blocks[idx].err != nil {
				base = base.Foreground(colorRed)
			} else if col == 4 {
				base = base.Foreground(colorGray)
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Blocks) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Blocks))))
	}
	return b.String()
}

// pickBlock lets the user choose a block interactively. It returns false when
// the picker was dismissed.
func pickBlock(blocks []markdown.Block) (markdown.Block, bool, error) {
	final, err := tea.NewProgram(NewBlockListModel(blocks)).Run()
	if err != nil {
		return markdown.Block{}, false, err
	}
	m, ok := final.(BlockListModel)
	if !ok || m.Selected == nil {
		return markdown.Block{}, false, nil
	}
	return *m.Selected, true, nil
}
