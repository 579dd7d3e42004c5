package styles_test

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/posixfs/internal/styles"
	"github.com/joe/posixfs/pkg/filesystem"
)

func TestRenderType_PlainRendererPads(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s := styles.New(lipgloss.NewRenderer(&bytes.Buffer{}))

	g.Expect(s.RenderType(filesystem.EntryDirectory)).To(Equal("dir    "))
	g.Expect(s.RenderType(filesystem.EntryUnknown)).To(Equal("unknown"))
}

func TestEntry_DistinctStylePerType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	s := styles.New(nil)

	g.Expect(s.Entry(filesystem.EntryDirectory).GetBold()).To(BeTrue())
	g.Expect(s.Entry(filesystem.EntrySymlink).GetItalic()).To(BeTrue())
	g.Expect(s.Entry(filesystem.EntryType(42)).GetForeground()).To(Equal(s.Unknown.GetForeground()))
}
