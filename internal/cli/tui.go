package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/easelkit/easel/pkg/board"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// nudgeStep is how far one keypress moves a node, in canvas pixels.
const nudgeStep = 10

// tuiCommand creates the "tui" command: an interactive board editor.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <board>",
		Short: "Edit a board interactively in the terminal",
		Long: `Open a board in a terminal editor.

Navigate nodes, nudge their positions, close nodes, and save the result
back to the store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openBoardStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			b, err := resolveBoard(ctx, store, args[0])
			if err != nil {
				return err
			}

			model := NewBoardEditModel(b, func(nodes []board.NodeRecord) error {
				b.Nodes = nodes
				b.UpdatedAt = time.Now().UTC()
				return store.Save(ctx, b)
			})

			p := tea.NewProgram(model, tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("run editor: %w", err)
			}

			if m, ok := final.(BoardEditModel); ok && m.Dirty {
				printWarning("Unsaved changes discarded")
			}
			return nil
		},
	}
}

// =============================================================================
// BoardEditModel - Interactive board editing
// =============================================================================

// BoardEditModel is the bubbletea model for the board editor.
type BoardEditModel struct {
	BoardName string
	Nodes     []board.NodeRecord
	Cursor    int
	Height    int
	Offset    int
	Dirty     bool
	Status    string

	save func([]board.NodeRecord) error
}

// NewBoardEditModel creates a board editor over the board's node records.
func NewBoardEditModel(b board.Board, save func([]board.NodeRecord) error) BoardEditModel {
	nodes := make([]board.NodeRecord, len(b.Nodes))
	copy(nodes, b.Nodes)
	return BoardEditModel{
		BoardName: b.Name,
		Nodes:     nodes,
		Height:    15,
		save:      save,
	}
}

func (m BoardEditModel) Init() tea.Cmd {
	return nil
}

func (m BoardEditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "shift+left", "h":
			m = m.nudge(-nudgeStep, 0)
		case "shift+right", "l":
			m = m.nudge(nudgeStep, 0)
		case "shift+up", "u":
			m = m.nudge(0, -nudgeStep)
		case "shift+down", "n":
			m = m.nudge(0, nudgeStep)
		case "x":
			if len(m.Nodes) > 0 {
				m.Nodes = append(m.Nodes[:m.Cursor], m.Nodes[m.Cursor+1:]...)
				if m.Cursor >= len(m.Nodes) && m.Cursor > 0 {
					m.Cursor--
				}
				m.Dirty = true
				m.Status = "node closed"
			}
		case "s":
			if m.save != nil {
				if err := m.save(m.Nodes); err != nil {
					m.Status = "save failed: " + err.Error()
				} else {
					m.Dirty = false
					m.Status = "saved"
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BoardEditModel) nudge(dx, dy float64) BoardEditModel {
	if len(m.Nodes) == 0 {
		return m
	}
	m.Nodes[m.Cursor].X += dx
	m.Nodes[m.Cursor].Y += dy
	m.Dirty = true
	m.Status = ""
	return m
}

func (m BoardEditModel) View() string {
	var b strings.Builder

	title := m.BoardName
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  shift+arrows move  x close  s save  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (board is empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		ratio := n.RatioLabel
		if ratio == "" {
			ratio = "—"
		}
		pos := fmt.Sprintf("(%.0f,%.0f)", n.X, n.Y)
		rows = append(rows, []string{cursor, shortID(n.ID), pos, ratio, n.ImageURL})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Position", "Ratio", "Image").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	if m.Status != "" {
		b.WriteString("  " + StyleSuccess.Render(m.Status))
	}

	return b.String()
}
