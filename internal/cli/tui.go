package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skoehler/geomap/pkg/palette"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Class count bounds for the browser.
const (
	minClasses = 3
	maxClasses = 12
)

// paletteModel is the bubbletea model for the interactive palette browser.
// Up/down move between palettes, left/right change the class count, enter
// selects, q quits without selecting.
type paletteModel struct {
	names   []string
	cursor  int
	classes int
	chosen  string
}

// newPaletteModel creates a browser model with the given class count.
func newPaletteModel(classes int) paletteModel {
	if classes < minClasses {
		classes = minClasses
	}
	if classes > maxClasses {
		classes = maxClasses
	}
	return paletteModel{
		names:   palette.Names(),
		classes: classes,
	}
}

func (m paletteModel) Init() tea.Cmd {
	return nil
}

func (m paletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
		case "left", "h":
			if m.classes > minClasses {
				m.classes--
			}
		case "right", "l":
			if m.classes < maxClasses {
				m.classes++
			}
		case "enter":
			m.chosen = m.names[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m paletteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Palette Browser"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ palette  ←/→ classes  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.names {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		row := fmt.Sprintf("%s%-10s ", cursor, name)
		colors, err := palette.Colors(name, m.classes)
		if err == nil {
			row = style.Render(row) + swatch(colors)
		} else {
			row = style.Render(row) + listDimStyle.Render("—")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d classes", m.classes)))

	return b.String()
}
