package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/joe/posixfs/internal/styles"
)

const (
	// rows taken by the title, status and help lines
	chromeHeight = 6
	// rows shown before the first WindowSizeMsg arrives
	defaultVisibleRows = 20
)

// View implements tea.Model
func (m Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.styles.Title.Render(m.cwd))
	builder.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(m.entries))
	for i := m.offset; i < end; i++ {
		entry := m.entries[i]

		marker := strings.Repeat(" ", len([]rune(styles.CursorMarker)))
		name := m.styles.Entry(entry.Type).Render(entry.Name)

		if i == m.cursor {
			marker = styles.CursorMarker
			name = m.styles.Selected.Render(entry.Name)
		}

		fmt.Fprintf(&builder, "%s%s %s\n", marker, m.styles.RenderType(entry.Type), name)
	}

	builder.WriteString("\n")
	builder.WriteString(m.statusLine())
	builder.WriteString("\n")
	builder.WriteString(m.helpLine())

	return builder.String()
}

func (m Model) statusLine() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render(m.err.Error())
	case m.status != "":
		return m.styles.Dim.Render(m.status)
	case m.loading:
		return fmt.Sprintf("%s Scanning %s...", m.spinner.View(), m.target)
	default:
		return m.styles.Dim.Render(fmt.Sprintf("%d entries", len(m.entries)))
	}
}

func (m Model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, binding := range m.keys.help() {
		parts = append(parts, helpText(binding))
	}

	return m.styles.Dim.Render(strings.Join(parts, " • "))
}

func helpText(binding key.Binding) string {
	help := binding.Help()
	return help.Key + " " + help.Desc
}

func (m Model) visibleRows() int {
	if m.height <= 0 {
		return defaultVisibleRows
	}

	return max(1, m.height-chromeHeight)
}

// clampOffset scrolls the window so the cursor stays visible.
func (m *Model) clampOffset() {
	rows := m.visibleRows()

	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}
