package filesystem

import (
	"io/fs"
	"iter"
)

// EntryType classifies a directory entry. The numeric values are part of the
// scripting contract (FSITEM_* constants) and must not change.
type EntryType int

// Entry types.
const (
	EntryUnknown EntryType = iota
	EntryDirectory
	EntryRegularFile
	EntrySymlink
)

// String returns the short name of the entry type.
func (t EntryType) String() string {
	switch t {
	case EntryDirectory:
		return "dir"
	case EntryRegularFile:
		return "file"
	case EntrySymlink:
		return "link"
	default:
		return "unknown"
	}
}

// EntryTypeFromMode maps a file mode to an EntryType. Anything that is not a
// directory, regular file or symlink is EntryUnknown.
func EntryTypeFromMode(mode fs.FileMode) EntryType {
	switch {
	case mode&fs.ModeSymlink != 0:
		return EntrySymlink
	case mode.IsDir():
		return EntryDirectory
	case mode.IsRegular():
		return EntryRegularFile
	default:
		return EntryUnknown
	}
}

// DirectoryEntry is one item read from a directory.
type DirectoryEntry struct {
	Name string
	Type EntryType
}

// EntryScanner is a lazy, single-pass iterator over one directory's entries.
//
// Entries come back in whatever order the underlying directory read returns
// them, including the "." and ".." entries. The scanner holds exactly one open
// handle until the directory is exhausted or Close is called.
type EntryScanner interface {
	// Next reads the next entry.
	// Returns (DirectoryEntry{}, false) when the directory is exhausted or a read failed;
	// the handle is released at that point.
	Next() (DirectoryEntry, bool)

	// Err returns the read error that ended the scan, if any.
	// Should be checked after Next() returns false.
	Err() error

	// Close releases the handle. Calling it more than once is a no-op.
	Close() error
}

// FileSystem opens directories for scanning.
type FileSystem interface {
	// Scan opens path as a directory. Failure is reported immediately as an *OpenError.
	Scan(path string) (EntryScanner, error)
}

// Entries adapts a scanner to a range-over-func sequence.
// Stopping the loop early closes the scanner.
func Entries(scanner EntryScanner) iter.Seq[DirectoryEntry] {
	return func(yield func(DirectoryEntry) bool) {
		defer scanner.Close()

		for {
			entry, ok := scanner.Next()
			if !ok {
				return
			}

			if !yield(entry) {
				return
			}
		}
	}
}

// Collect drains a scanner into a slice and closes it.
// The returned error is the read error that ended the scan, if any.
func Collect(scanner EntryScanner) ([]DirectoryEntry, error) {
	entries := make([]DirectoryEntry, 0)
	for entry := range Entries(scanner) {
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
