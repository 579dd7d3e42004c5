package starlarkfs_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"go.starlark.net/starlark"

	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/starlarkfs"
)

// run executes src and returns the global named result plus printed lines.
func run(fsys filesystem.FileSystem, src string) (starlark.Value, []string, error) {
	var printed []string

	thread := &starlark.Thread{
		Name: "test",
		Print: func(_ *starlark.Thread, msg string) {
			printed = append(printed, msg)
		},
	}

	globals, err := starlarkfs.ExecFile(thread, "test.star", src, fsys)
	if err != nil {
		return nil, printed, err
	}

	return globals["result"], printed, nil
}

func stringList(v starlark.Value) []string {
	list, ok := v.(*starlark.List)
	Expect(ok).To(BeTrue(), "expected list, got %s", v.Type())

	out := make([]string, 0, list.Len())
	for i := range list.Len() {
		s, ok := starlark.AsString(list.Index(i))
		Expect(ok).To(BeTrue())
		out = append(out, s)
	}

	return out
}

var _ = Describe("posixfs module", func() {
	var memFS *filesystem.MemFileSystem

	BeforeEach(func() {
		memFS = filesystem.NewMemFileSystem()
		memFS.AddDir("/data/sub")
		memFS.AddFile("/data/file.txt")
		memFS.AddSymlink("/data/link")
		memFS.AddEntry("/data/fifo", filesystem.EntryUnknown)
	})

	Describe("constants", func() {
		It("exports the FSITEM values", func() {
			result, _, err := run(memFS, `result = [
    posixfs.FSITEM_UNKNOWN,
    posixfs.FSITEM_DIR,
    posixfs.FSITEM_FILE,
    posixfs.FSITEM_LINK,
]`)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.String()).To(Equal("[0, 1, 2, 3]"))
		})
	})

	Describe("scan", func() {
		It("yields every entry as a name/type struct", func() {
			result, _, err := run(memFS, `
def main():
    out = []
    for e in posixfs.scan("/data"):
        out.append("%s:%d" % (e.name, e.type))
    return out

result = main()
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(stringList(result)).To(ConsistOf(
				".:1", "..:1", "sub:1", "file.txt:2", "link:3", "fifo:0",
			))
			Expect(memFS.OpenScanners()).To(BeZero())
		})

		It("works with list() and comprehensions", func() {
			result, _, err := run(memFS, `result = [e.name for e in list(posixfs.scan("/data")) if e.type == posixfs.FSITEM_FILE]`)
			Expect(err).NotTo(HaveOccurred())
			Expect(stringList(result)).To(Equal([]string{"file.txt"}))
		})

		It("releases the handle when the loop breaks early", func() {
			result, _, err := run(memFS, `
def main():
    for e in posixfs.scan("/data"):
        return e.name

result = main()
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(starlark.String(".")))
			Expect(memFS.OpenScanners()).To(BeZero())
		})

		It("cannot be restarted", func() {
			result, _, err := run(memFS, `
def main():
    s = posixfs.scan("/data")
    first = len([e for e in s])
    second = len([e for e in s])
    return [first, second]

result = main()
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.String()).To(Equal("[6, 0]"))
		})

		It("can be closed explicitly", func() {
			_, _, err := run(memFS, `
s = posixfs.scan("/data")
s.close()
s.close()
result = str(s)
`)
			Expect(err).NotTo(HaveOccurred())
			Expect(memFS.OpenScanners()).To(BeZero())
		})

		It("reports open failures with the path and OS text", func() {
			_, _, err := run(memFS, `posixfs.scan("/missing")`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("cannot open /missing: no such file or directory"))

			_, _, err = run(memFS, `posixfs.scan("/data/file.txt")`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not a directory"))
		})

		It("is not hashable", func() {
			_, _, err := run(memFS, `d = {posixfs.scan("/data"): 1}`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unhashable"))
		})

		It("scans real directories", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644)).To(Succeed())
			Expect(os.Mkdir(filepath.Join(dir, "b"), 0o755)).To(Succeed())

			src := strings.ReplaceAll(`
def main():
    return ["%s:%d" % (e.name, e.type) for e in posixfs.scan("DIR")]

result = main()
`, "DIR", dir)

			result, _, err := run(filesystem.NewRealFileSystem(), src)
			Expect(err).NotTo(HaveOccurred())
			Expect(stringList(result)).To(ConsistOf(".:1", "..:1", "a.txt:2", "b:1"))
		})
	})

	Describe("path_join", func() {
		DescribeTable("joins and trims",
			func(base, tail, expected string) {
				result, _, err := run(memFS, `result = posixfs.path_join("`+base+`", "`+tail+`")`)
				Expect(err).NotTo(HaveOccurred())
				Expect(result).To(Equal(starlark.String(expected)))
			},
			Entry("root parent", "/", "..", "/"),
			Entry("nested parent", "/a/b/c", "..", "/a/b"),
			Entry("trailing separator parent", "/a/b/", "..", "/a"),
			Entry("single segment parent", "/a", "..", "/"),
			Entry("append", "/a/b", "c", "/a/b/c"),
			Entry("append after separator", "/a/b/", "c", "/a/b/c"),
		)

		It("accepts keyword arguments", func() {
			result, _, err := run(memFS, `result = posixfs.path_join(base = "/a", tail = "b")`)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(starlark.String("/a/b")))
		})

		It("rejects a relative base", func() {
			_, _, err := run(memFS, `posixfs.path_join("abc", "x")`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid argument base"))
		})

		It("rejects an absolute tail", func() {
			_, _, err := run(memFS, `posixfs.path_join("/a", "/x")`)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid argument tail"))
		})
	})

	It("allows loops at the top level of a script", func() {
		_, printed, err := run(memFS, `
for e in posixfs.scan("/data"):
    if e.type == posixfs.FSITEM_DIR and e.name not in (".", ".."):
        print(posixfs.path_join("/data", e.name))
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(printed).To(Equal([]string{"/data/sub"}))
		Expect(memFS.OpenScanners()).To(BeZero())
	})

	It("prints through the thread", func() {
		_, printed, err := run(memFS, `print(posixfs.path_join("/a", ".."))`)
		Expect(err).NotTo(HaveOccurred())
		Expect(printed).To(Equal([]string{"/"}))
	})
})
