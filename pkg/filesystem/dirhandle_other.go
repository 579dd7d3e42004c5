//go:build unix && !linux

package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// dirHandle reads one entry per step through os.File.ReadDir. The os package
// drops "." and "..", so they are put back in front.
type dirHandle struct {
	file *os.File
	dots []DirectoryEntry
}

func openDir(path string) (*dirHandle, error) {
	file, err := os.Open(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return nil, pathErr.Err //nolint:wrapcheck // Wrapped in OpenError by the caller
		}

		return nil, err //nolint:wrapcheck // Wrapped in OpenError by the caller
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err //nolint:wrapcheck // Wrapped in OpenError by the caller
	}

	if !info.IsDir() {
		_ = file.Close()
		return nil, unix.ENOTDIR
	}

	return &dirHandle{
		file: file,
		dots: []DirectoryEntry{
			{Name: ".", Type: EntryDirectory},
			{Name: "..", Type: EntryDirectory},
		},
	}, nil
}

func (h *dirHandle) read() (DirectoryEntry, bool, error) {
	if len(h.dots) > 0 {
		entry := h.dots[0]
		h.dots = h.dots[1:]

		return entry, true, nil
	}

	entries, err := h.file.ReadDir(1)
	if errors.Is(err, io.EOF) || (err == nil && len(entries) == 0) {
		return DirectoryEntry{}, false, nil
	}

	if err != nil {
		return DirectoryEntry{}, false, err //nolint:wrapcheck // Wrapped by the scanner with the path
	}

	return DirectoryEntry{Name: entries[0].Name(), Type: EntryTypeFromMode(entries[0].Type())}, true, nil
}

func (h *dirHandle) close() error {
	if h.file == nil {
		return nil
	}

	file := h.file
	h.file = nil

	return file.Close() //nolint:wrapcheck // Wrapped by the scanner with the path
}
