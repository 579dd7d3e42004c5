// Package browse is an interactive directory browser. Every listing comes
// from one scan of the current directory, and every move is a path join.
package browse

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/posixfs/internal/styles"
	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/posixpath"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger navigation is reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithStyles replaces the default palette.
func WithStyles(s styles.Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// Model is the browser state.
type Model struct {
	fsys    filesystem.FileSystem
	logger  *slog.Logger
	styles  styles.Styles
	keys    keyMap
	spinner spinner.Model

	cwd     string
	entries []filesystem.DirectoryEntry
	cursor  int
	offset  int

	// loading is set while a scan is in flight; seq tags it so a late result
	// for a directory the user already left is dropped.
	loading bool
	target  string
	seq     int

	status string
	err    error
	width  int
	height int
}

// dirLoadedMsg carries the result of scanning one directory.
type dirLoadedMsg struct {
	seq     int
	path    string
	entries []filesystem.DirectoryEntry
	err     error
}

// New creates a browser rooted at start, which must be an absolute path on fsys.
func New(fsys filesystem.FileSystem, start string, opts ...Option) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		fsys:    fsys,
		logger:  slog.Default(),
		keys:    defaultKeyMap(),
		spinner: spin,
		cwd:     start,
		target:  start,
		loading: true,
	}
	m.styles = styles.New(nil)

	for _, opt := range opts {
		opt(&m)
	}

	m.spinner.Style = m.styles.Title.UnsetMarginBottom()

	return m
}

// Cwd returns the directory currently listed.
func (m Model) Cwd() string {
	return m.cwd
}

// Cursor returns the index of the selected entry.
func (m Model) Cursor() int {
	return m.cursor
}

// Entries returns the current listing.
func (m Model) Entries() []filesystem.DirectoryEntry {
	return m.entries
}

// Err returns the error from the last failed scan or join, if any.
func (m Model) Err() error {
	return m.err
}

// Loading reports whether a scan is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.load(m.seq, m.cwd),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()

		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case dirLoadedMsg:
		return m.handleLoaded(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

		m.clampOffset()

		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

		m.clampOffset()

		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m.enterSelected()
	case key.Matches(msg, m.keys.Parent):
		return m.navigate("..")
	case key.Matches(msg, m.keys.Reload):
		return m.visit(m.cwd)
	}

	return m, nil
}

func (m Model) enterSelected() (tea.Model, tea.Cmd) {
	if len(m.entries) == 0 {
		return m, nil
	}

	entry := m.entries[m.cursor]
	if entry.Type != filesystem.EntryDirectory {
		m.status = fmt.Sprintf("%s is a %s, not a directory", entry.Name, entry.Type)
		return m, nil
	}

	if entry.Name == "." {
		return m.visit(m.cwd)
	}

	return m.navigate(entry.Name)
}

// navigate joins tail onto the current directory and scans the result.
func (m Model) navigate(tail string) (tea.Model, tea.Cmd) {
	next, err := posixpath.Join(m.cwd, tail)
	if err != nil {
		m.err = err
		m.status = ""

		return m, nil
	}

	return m.visit(next)
}

func (m Model) visit(path string) (tea.Model, tea.Cmd) {
	m.seq++
	m.loading = true
	m.target = path
	m.status = ""
	m.logger.Debug("scanning directory", "path", path)

	return m, tea.Batch(
		m.spinner.Tick,
		m.load(m.seq, path),
	)
}

// load scans path off the UI goroutine. The scanner is drained and closed
// before the message is returned.
func (m Model) load(seq int, path string) tea.Cmd {
	fsys := m.fsys

	return func() tea.Msg {
		scanner, err := fsys.Scan(path)
		if err != nil {
			return dirLoadedMsg{seq: seq, path: path, err: err}
		}

		entries, err := filesystem.Collect(scanner)

		return dirLoadedMsg{seq: seq, path: path, entries: entries, err: err}
	}
}

func (m Model) handleLoaded(msg dirLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq {
		return m, nil
	}

	m.loading = false

	if msg.entries == nil && msg.err != nil {
		m.err = msg.err
		m.logger.Warn("cannot list directory", "path", msg.path, "error", msg.err)

		return m, nil
	}

	m.cwd = msg.path
	m.entries = msg.entries
	m.cursor = 0
	m.offset = 0
	m.err = msg.err

	return m, nil
}
