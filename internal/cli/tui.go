package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GifPicker - Interactive gif selection
// =============================================================================

// GifPicker is the bubbletea model for choosing a category, then a gif.
type GifPicker struct {
	Category nekoapi.Category // empty while the category is being chosen
	Selected string           // chosen gif name, empty until enter
	Cursor   int
	Height   int
	Offset   int
}

// NewGifPicker creates a picker starting at the category list.
func NewGifPicker() GifPicker {
	return GifPicker{Height: 15}
}

func (m GifPicker) items() []string {
	if m.Category == "" {
		return categoryNames()
	}
	return nekoapi.Gifs(m.Category)
}

func (m GifPicker) Init() tea.Cmd {
	return nil
}

func (m GifPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		items := m.items()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			if m.Category == "" {
				if msg.String() == "esc" {
					return m, tea.Quit
				}
				return m, nil
			}
			back := string(m.Category)
			m.Category = ""
			m.Cursor, m.Offset = 0, 0
			for i, name := range m.items() {
				if name == back {
					m.moveTo(i)
				}
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.moveTo(m.Cursor - 1)
			}
		case "down", "j":
			if m.Cursor < len(items)-1 {
				m.moveTo(m.Cursor + 1)
			}
		case "enter", "right", "l":
			if len(items) == 0 {
				return m, nil
			}
			if m.Category == "" {
				m.Category = nekoapi.Category(items[m.Cursor])
				m.Cursor, m.Offset = 0, 0
				return m, nil
			}
			if msg.String() == "enter" {
				m.Selected = items[m.Cursor]
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// moveTo places the cursor at i and scrolls it into view.
func (m *GifPicker) moveTo(i int) {
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m GifPicker) View() string {
	var b strings.Builder

	if m.Category == "" {
		b.WriteString(StyleTitle.Render("Select Category"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	} else {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Select %s gif", m.Category)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fetch  esc back  q quit"))
	}
	b.WriteString("\n\n")

	items := m.items()
	end := min(m.Offset+m.Height, len(items))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + items[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + items[i]))
		}
		b.WriteString("\n")
	}
	if len(items) > m.Height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("\n  %d/%d", m.Cursor+1, len(items))))
		b.WriteString("\n")
	}
	return b.String()
}

func (c *CLI) gifBrowseCommand() *cobra.Command {
	var api apiFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a gif interactively and fetch it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewGifPicker(), tea.WithContext(cmd.Context()), tea.WithOutput(cmd.ErrOrStderr()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			picked, ok := final.(GifPicker)
			if !ok || picked.Selected == "" {
				printInfo(cmd.ErrOrStderr(), "No gif selected")
				return nil
			}
			return c.runGif(cmd, api.client(cmd), picked.Category, picked.Selected, false)
		},
	}

	api.register(cmd)
	return cmd
}
