//go:build linux

package filesystem

import (
	"bytes"
	"encoding/binary"
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Layout of struct linux_dirent64 as filled in by getdents64.
const (
	direntInoOff    = unsafe.Offsetof(unix.Dirent{}.Ino)
	direntReclenOff = unsafe.Offsetof(unix.Dirent{}.Reclen)
	direntTypeOff   = unsafe.Offsetof(unix.Dirent{}.Type)
	direntNameOff   = unsafe.Offsetof(unix.Dirent{}.Name)
)

const direntBufSize = 8192

var errCorruptDirent = errors.New("corrupt directory entry record")

// dirHandle owns one directory file descriptor and the getdents buffer read from it.
type dirHandle struct {
	fd   int
	buf  []byte
	bufp int
	nbuf int
}

func openDir(path string) (*dirHandle, error) {
	var (
		fd  int
		err error
	)

	for {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if !errors.Is(err, unix.EINTR) {
			break
		}
	}

	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped in OpenError by the caller
	}

	return &dirHandle{fd: fd, buf: make([]byte, direntBufSize)}, nil
}

// read returns the next raw entry. (_, false, nil) means end of directory.
func (h *dirHandle) read() (DirectoryEntry, bool, error) {
	for {
		if h.bufp >= h.nbuf {
			n, err := unix.ReadDirent(h.fd, h.buf)
			if errors.Is(err, unix.EINTR) {
				continue
			}

			if err != nil {
				return DirectoryEntry{}, false, err //nolint:wrapcheck // Wrapped by the scanner with the path
			}

			if n <= 0 {
				return DirectoryEntry{}, false, nil
			}

			h.bufp, h.nbuf = 0, n
		}

		rec := h.buf[h.bufp:h.nbuf]
		if len(rec) < int(direntNameOff) {
			return DirectoryEntry{}, false, errCorruptDirent
		}

		reclen := int(binary.NativeEndian.Uint16(rec[direntReclenOff:]))
		if reclen < int(direntNameOff) || reclen > len(rec) {
			return DirectoryEntry{}, false, errCorruptDirent
		}

		rec = rec[:reclen]
		h.bufp += reclen

		// Zero inode marks a deleted slot.
		if binary.NativeEndian.Uint64(rec[direntInoOff:]) == 0 {
			continue
		}

		name := rec[direntNameOff:]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}

		return DirectoryEntry{Name: string(name), Type: direntType(rec[direntTypeOff])}, true, nil
	}
}

func (h *dirHandle) close() error {
	if h.fd < 0 {
		return nil
	}

	fd := h.fd
	h.fd = -1
	h.buf = nil

	return unix.Close(fd) //nolint:wrapcheck // Wrapped by the scanner with the path
}

// direntType maps a d_type tag. Filesystems that do not fill d_type report
// DT_UNKNOWN, which stays unknown.
func direntType(native uint8) EntryType {
	switch native {
	case unix.DT_DIR:
		return EntryDirectory
	case unix.DT_REG:
		return EntryRegularFile
	case unix.DT_LNK:
		return EntrySymlink
	default:
		return EntryUnknown
	}
}
