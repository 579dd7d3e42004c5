//nolint:varnamelen // Test files use idiomatic short variable names (t, m, etc.)
package browse_test

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/posixfs/internal/browse"
	"github.com/joe/posixfs/internal/styles"
	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/posixpath"
)

func newTree() *filesystem.MemFileSystem {
	memFS := filesystem.NewMemFileSystem()
	memFS.AddDir("/data/sub/deeper")
	memFS.AddFile("/data/file.txt")
	memFS.AddSymlink("/data/link")

	return memFS
}

func newModel(t *testing.T, fsys filesystem.FileSystem, start string) browse.Model {
	t.Helper()

	m := browse.New(fsys, start, browse.WithStyles(styles.New(lipgloss.NewRenderer(&bytes.Buffer{}))))

	return settle(t, m, m.Init())
}

// settle runs cmd, feeds every resulting message except spinner ticks back
// into the model, and returns the updated model.
func settle(t *testing.T, m browse.Model, cmd tea.Cmd) browse.Model {
	t.Helper()

	if cmd == nil {
		return m
	}

	msgs := []tea.Msg{cmd()}
	if batch, ok := msgs[0].(tea.BatchMsg); ok {
		msgs = msgs[:0]

		for _, c := range batch {
			if c != nil {
				msgs = append(msgs, c())
			}
		}
	}

	for _, msg := range msgs {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}

		updated, _ := m.Update(msg)

		next, ok := updated.(browse.Model)
		if !ok {
			t.Fatalf("Update returned %T", updated)
		}

		m = next
	}

	return m
}

func press(t *testing.T, m browse.Model, msg tea.KeyMsg) browse.Model {
	t.Helper()

	updated, cmd := m.Update(msg)

	next, ok := updated.(browse.Model)
	if !ok {
		t.Fatalf("Update returned %T", updated)
	}

	return settle(t, next, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// selectEntry moves the cursor down to the entry called name.
func selectEntry(t *testing.T, m browse.Model, name string) browse.Model {
	t.Helper()

	for i, entry := range m.Entries() {
		if entry.Name == name {
			for range i - m.Cursor() {
				m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
			}

			return m
		}
	}

	t.Fatalf("no entry %q in %s", name, m.Cwd())

	return m
}

func names(entries []filesystem.DirectoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Name)
	}

	return out
}

func TestInitListsStartDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	memFS := newTree()
	m := newModel(t, memFS, "/data")

	g.Expect(m.Loading()).To(BeFalse())
	g.Expect(m.Cwd()).To(Equal("/data"))
	g.Expect(names(m.Entries())).To(Equal([]string{".", "..", "file.txt", "link", "sub"}))
	g.Expect(memFS.OpenScanners()).To(BeZero())
}

func TestEnterDescendsIntoDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data")
	m = selectEntry(t, m, "sub")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	g.Expect(m.Cwd()).To(Equal("/data/sub"))
	g.Expect(m.Cursor()).To(BeZero())
	g.Expect(names(m.Entries())).To(ContainElement("deeper"))
}

func TestEnterDotDotTrims(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data/sub")
	m = selectEntry(t, m, "..")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	g.Expect(m.Cwd()).To(Equal("/data"))
}

func TestEnterDotStays(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	g.Expect(m.Cwd()).To(Equal("/data"))
}

func TestEnterOnFileIsRefused(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data")
	m = selectEntry(t, m, "file.txt")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	g.Expect(m.Cwd()).To(Equal("/data"))
	g.Expect(m.View()).To(ContainSubstring("file.txt is a file, not a directory"))
}

func TestParentKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		start    string
		key      tea.KeyMsg
		expected string
	}{
		{"backspace from nested", "/data/sub/deeper", tea.KeyMsg{Type: tea.KeyBackspace}, "/data/sub"},
		{"h from nested", "/data/sub", runes("h"), "/data"},
		{"backspace from top level", "/data", tea.KeyMsg{Type: tea.KeyBackspace}, "/"},
		{"root parent is root", "/", tea.KeyMsg{Type: tea.KeyBackspace}, "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			m := newModel(t, newTree(), tt.start)
			m = press(t, m, tt.key)

			g.Expect(m.Err()).ToNot(HaveOccurred())
			g.Expect(m.Cwd()).To(Equal(tt.expected))
			g.Expect(m.Cwd()).To(Equal(posixpath.MustJoin(tt.start, "..")))
		})
	}
}

func TestCursorStaysInRange(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data")

	m = press(t, m, runes("k"))
	g.Expect(m.Cursor()).To(BeZero())

	for range 10 {
		m = press(t, m, runes("j"))
	}

	g.Expect(m.Cursor()).To(Equal(len(m.Entries()) - 1))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	g.Expect(m.Cursor()).To(Equal(len(m.Entries()) - 2))
}

func TestScanErrorKeepsDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	memFS := newTree()
	m := newModel(t, memFS, "/data")
	m = selectEntry(t, m, "sub")

	// The directory vanishes between listing and entering it.
	memFS.AddFile("/data/sub")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	var openErr *filesystem.OpenError
	g.Expect(m.Err()).To(BeAssignableToTypeOf(openErr))
	g.Expect(m.Cwd()).To(Equal("/data"))
	g.Expect(names(m.Entries())).To(ContainElement("sub"))
	g.Expect(m.View()).To(ContainSubstring("cannot open /data/sub"))
}

func TestMissingStartDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/nope")

	g.Expect(m.Err()).To(MatchError(fs.ErrNotExist))
	g.Expect(m.Entries()).To(BeEmpty())
}

func TestQuit(t *testing.T) {
	t.Parallel()

	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		g := NewWithT(t)

		m := newModel(t, newTree(), "/data")
		_, cmd := m.Update(msg)

		g.Expect(cmd).ToNot(BeNil())
		g.Expect(cmd()).To(Equal(tea.Quit()))
	}
}

func TestViewShowsEntriesAndCursor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, newTree(), "/data")
	view := m.View()

	g.Expect(view).To(HavePrefix("/data\n"))
	g.Expect(view).To(ContainSubstring(styles.CursorMarker + "dir     ."))
	g.Expect(view).To(ContainSubstring("  file    file.txt"))
	g.Expect(view).To(ContainSubstring("  link    link"))
	g.Expect(view).To(ContainSubstring("5 entries"))
}

func TestViewScrollsWithCursor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	memFS := filesystem.NewMemFileSystem()
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		memFS.AddFile("/many/" + name)
	}

	m := newModel(t, memFS, "/many")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 9})
	m = updated.(browse.Model) //nolint:forcetypeassert // Update always returns Model

	for range 6 {
		m = press(t, m, runes("j"))
	}

	view := m.View()
	g.Expect(view).To(ContainSubstring(styles.CursorMarker + "file    e"))
	g.Expect(view).ToNot(ContainSubstring("    ."))
}
