// Package starlarkfs exposes directory scanning and path joining to Starlark
// scripts as the "posixfs" module.
//
//	def main():
//	    for e in posixfs.scan("/etc"):
//	        if e.type == posixfs.FSITEM_DIR:
//	            print(posixfs.path_join("/etc", e.name))
package starlarkfs

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/posixpath"
)

// ModuleName is the name scripts use for the module.
const ModuleName = "posixfs"

// NewModule builds the posixfs module. scan reads directories through fsys.
func NewModule(fsys filesystem.FileSystem) *starlarkstruct.Module {
	b := &binding{fsys: fsys}

	return &starlarkstruct.Module{
		Name: ModuleName,
		Members: starlark.StringDict{
			"scan":           starlark.NewBuiltin(ModuleName+".scan", b.scan),
			"path_join":      starlark.NewBuiltin(ModuleName+".path_join", pathJoin),
			"FSITEM_UNKNOWN": starlark.MakeInt(int(filesystem.EntryUnknown)),
			"FSITEM_DIR":     starlark.MakeInt(int(filesystem.EntryDirectory)),
			"FSITEM_FILE":    starlark.MakeInt(int(filesystem.EntryRegularFile)),
			"FSITEM_LINK":    starlark.MakeInt(int(filesystem.EntrySymlink)),
		},
	}
}

// Predeclared returns the environment scripts run in: just the posixfs module.
func Predeclared(fsys filesystem.FileSystem) starlark.StringDict {
	return starlark.StringDict{
		ModuleName: NewModule(fsys),
	}
}

// FileOptions are the dialect scripts are compiled with. Top-level loops and
// while statements are allowed, so a script can walk directories without
// wrapping everything in a function.
func FileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
}

// ExecFile runs a script with the posixfs module predeclared.
// src may be a string, []byte, io.Reader or nil (read filename).
func ExecFile(thread *starlark.Thread, filename string, src any, fsys filesystem.FileSystem) (starlark.StringDict, error) {
	return ExecFileWith(thread, filename, src, Predeclared(fsys))
}

// ExecFileWith runs a script against an explicit environment, typically
// Predeclared plus program-specific names.
func ExecFileWith(thread *starlark.Thread, filename string, src any, predeclared starlark.StringDict) (starlark.StringDict, error) {
	//nolint:wrapcheck // Starlark errors carry their own backtrace
	return starlark.ExecFileOptions(FileOptions(), thread, filename, src, predeclared)
}

type binding struct {
	fsys filesystem.FileSystem
}

func (b *binding) scan(
	_ *starlark.Thread,
	fn *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "path", &path); err != nil {
		return nil, err //nolint:wrapcheck // Already names the builtin
	}

	scanner, err := b.fsys.Scan(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // OpenError carries the path and OS text
	}

	return newScanValue(path, scanner), nil
}

func pathJoin(
	_ *starlark.Thread,
	fn *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var base, tail string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "base", &base, "tail", &tail); err != nil {
		return nil, err //nolint:wrapcheck // Already names the builtin
	}

	joined, err := posixpath.Join(base, tail)
	if err != nil {
		return nil, err //nolint:wrapcheck // InvalidArgumentError names the argument
	}

	return starlark.String(joined), nil
}
