package starlarkfs

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/joe/posixfs/pkg/filesystem"
)

const scanTypeName = ModuleName + ".scan"

//nolint:gochecknoglobals // Constructor tag shared by every entry struct
var entryConstructor = starlark.String("entry")

// scanValue is the iterable returned by posixfs.scan. It wraps one open
// scanner; iterating consumes it, and ending the loop releases it.
type scanValue struct {
	path    string
	scanner filesystem.EntryScanner
}

var (
	_ starlark.Iterable = (*scanValue)(nil)
	_ starlark.HasAttrs = (*scanValue)(nil)
)

func newScanValue(path string, scanner filesystem.EntryScanner) *scanValue {
	return &scanValue{path: path, scanner: scanner}
}

// Attr exposes close(), for scripts that hold a scan without iterating it to the end.
func (v *scanValue) Attr(name string) (starlark.Value, error) {
	if name != "close" {
		return nil, nil
	}

	return starlark.NewBuiltin(scanTypeName+".close", func(
		_ *starlark.Thread,
		fn *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
			return nil, err //nolint:wrapcheck // Already names the builtin
		}

		if err := v.scanner.Close(); err != nil {
			return nil, err //nolint:wrapcheck // Names the directory
		}

		return starlark.None, nil
	}), nil
}

func (v *scanValue) AttrNames() []string {
	return []string{"close"}
}

func (v *scanValue) Freeze() {}

func (v *scanValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", scanTypeName) //nolint:err113 // Mirrors Starlark's own message
}

func (v *scanValue) Iterate() starlark.Iterator {
	return &scanIterator{scanner: v.scanner}
}

func (v *scanValue) String() string {
	return fmt.Sprintf("<%s %q>", scanTypeName, v.path)
}

func (v *scanValue) Truth() starlark.Bool {
	return starlark.True
}

func (v *scanValue) Type() string {
	return scanTypeName
}

type scanIterator struct {
	scanner filesystem.EntryScanner
}

// Done is called when the loop ends for any reason.
func (it *scanIterator) Done() {
	_ = it.scanner.Close()
}

func (it *scanIterator) Next(p *starlark.Value) bool {
	entry, ok := it.scanner.Next()
	if !ok {
		return false
	}

	*p = entryValue(entry)

	return true
}

// entryValue converts an entry to struct(name=..., type=...).
func entryValue(entry filesystem.DirectoryEntry) *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(entryConstructor, starlark.StringDict{
		"name": starlark.String(entry.Name),
		"type": starlark.MakeInt(int(entry.Type)),
	})
}
