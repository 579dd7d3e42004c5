package filesystem

import (
	"path"
	"sort"
	"sync"

	"golang.org/x/sys/unix"
)

// MemFileSystem is an in-memory directory tree for tests and dry runs.
// Paths are absolute and slash-separated.
type MemFileSystem struct {
	mu    sync.RWMutex
	nodes map[string]EntryType
	open  int
}

// NewMemFileSystem creates an in-memory filesystem containing only "/".
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		nodes: map[string]EntryType{"/": EntryDirectory},
	}
}

// AddDir adds a directory and any missing parents.
func (fs *MemFileSystem) AddDir(name string) {
	fs.add(name, EntryDirectory)
}

// AddFile adds a regular file and any missing parent directories.
func (fs *MemFileSystem) AddFile(name string) {
	fs.add(name, EntryRegularFile)
}

// AddSymlink adds a symlink entry. The target is not tracked.
func (fs *MemFileSystem) AddSymlink(name string) {
	fs.add(name, EntrySymlink)
}

// AddEntry adds an entry of an arbitrary type, e.g. EntryUnknown for a socket.
func (fs *MemFileSystem) AddEntry(name string, typ EntryType) {
	fs.add(name, typ)
}

// OpenScanners returns the number of scanners that still hold a handle.
func (fs *MemFileSystem) OpenScanners() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.open
}

// Scan snapshots the children of name. "." and ".." come first, then the
// children sorted by name.
func (fs *MemFileSystem) Scan(name string) (EntryScanner, error) {
	clean := path.Clean("/" + name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	typ, exists := fs.nodes[clean]
	if !exists {
		return nil, &OpenError{Path: name, Err: unix.ENOENT}
	}

	if typ != EntryDirectory {
		return nil, &OpenError{Path: name, Err: unix.ENOTDIR}
	}

	children := make([]DirectoryEntry, 0)
	for p, t := range fs.nodes {
		if p != "/" && path.Dir(p) == clean {
			children = append(children, DirectoryEntry{Name: path.Base(p), Type: t})
		}
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})

	entries := append([]DirectoryEntry{
		{Name: ".", Type: EntryDirectory},
		{Name: "..", Type: EntryDirectory},
	}, children...)

	fs.open++

	return &memScanner{fs: fs, entries: entries}, nil
}

func (fs *MemFileSystem) add(name string, typ EntryType) {
	clean := path.Clean("/" + name)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	for dir := path.Dir(clean); dir != "/"; dir = path.Dir(dir) {
		if _, exists := fs.nodes[dir]; !exists {
			fs.nodes[dir] = EntryDirectory
		}
	}

	if clean != "/" {
		fs.nodes[clean] = typ
	}
}

// memScanner implements EntryScanner for MemFileSystem.
type memScanner struct {
	fs      *MemFileSystem
	entries []DirectoryEntry
	index   int
	closed  bool
}

// Close releases the scanner's handle.
func (s *memScanner) Close() error {
	s.release()
	return nil
}

// Err returns nil; MemFileSystem doesn't produce errors during scanning.
func (s *memScanner) Err() error {
	return nil
}

// Next returns the next snapshotted entry.
func (s *memScanner) Next() (DirectoryEntry, bool) {
	if s.closed {
		return DirectoryEntry{}, false
	}

	if s.index >= len(s.entries) {
		s.release()
		return DirectoryEntry{}, false
	}

	entry := s.entries[s.index]
	s.index++

	return entry, true
}

func (s *memScanner) release() {
	if s.closed {
		return
	}

	s.closed = true

	s.fs.mu.Lock()
	s.fs.open--
	s.fs.mu.Unlock()
}
