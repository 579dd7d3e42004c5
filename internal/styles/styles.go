// Package styles holds the lipgloss styles shared by the scan listing and the
// browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/joe/posixfs/pkg/filesystem"
)

// Exported constants.
const (
	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// CursorMarker is drawn in front of the selected row
	CursorMarker = "▶ "
	// TypeColumnWidth fits the longest entry type name
	TypeColumnWidth = 7
)

// Styles is a palette bound to one renderer, so output written to a pipe or a
// buffer carries no escape codes.
type Styles struct {
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
	Directory lipgloss.Style
	File      lipgloss.Style
	Symlink   lipgloss.Style
	Unknown   lipgloss.Style
	Box       lipgloss.Style
}

// New builds the palette for r. A nil renderer means lipgloss's default
// renderer on stdout.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(primaryColorCode)).
			MarginBottom(1),
		Dim: r.NewStyle().
			Foreground(lipgloss.Color(dimColorCode)),
		Error: r.NewStyle().
			Foreground(lipgloss.Color(errorColorCode)).
			Bold(true),
		Selected: r.NewStyle().
			Foreground(lipgloss.Color(highlightColorCode)).
			Bold(true),
		Directory: r.NewStyle().
			Foreground(lipgloss.Color(accentColorCode)).
			Bold(true),
		File: r.NewStyle().
			Foreground(lipgloss.Color(normalColorCode)),
		Symlink: r.NewStyle().
			Foreground(lipgloss.Color(successColorCode)).
			Italic(true),
		Unknown: r.NewStyle().
			Foreground(lipgloss.Color(warningColorCode)),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accentColorCode)).
			Padding(0, DefaultPadding),
	}
}

// Entry returns the style for an entry of type t.
func (s Styles) Entry(t filesystem.EntryType) lipgloss.Style {
	switch t {
	case filesystem.EntryDirectory:
		return s.Directory
	case filesystem.EntryRegularFile:
		return s.File
	case filesystem.EntrySymlink:
		return s.Symlink
	default:
		return s.Unknown
	}
}

// RenderType renders the type name padded to the type column.
func (s Styles) RenderType(t filesystem.EntryType) string {
	return s.Entry(t).Width(TypeColumnWidth).Render(t.String())
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	normalColorCode    = "252" // Light gray
	primaryColorCode   = "205" // Pink/purple
	successColorCode   = "42"  // Green
	warningColorCode   = "226" // Yellow
)
