package filesystem

import (
	"fmt"
)

// CreateFileSystem creates a FileSystem for the given location string.
// Returns (filesystem, basePath, closer, error).
//   - filesystem: the FileSystem to scan with
//   - basePath: the directory to pass to Scan (stripped of URL prefix)
//   - closer: closes SFTP connections; a no-op for local paths
func CreateFileSystem(location string, opts ...Option) (FileSystem, string, func(), error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, "", nil, err
	}

	if !loc.Remote {
		return NewRealFileSystem(opts...), loc.Path, func() {}, nil
	}

	conn, err := Connect(loc.Host, loc.Port, loc.User)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			loc.User, loc.Host, loc.Port, err)
	}

	pool, err := NewSFTPClientPool(SSHClientFactory(conn.SSHClient()), DefaultPoolSize)
	if err != nil {
		_ = conn.Close()
		return nil, "", nil, fmt.Errorf("failed to open SFTP sessions on %s: %w", conn, err)
	}

	fs := NewSFTPFileSystem(pool, opts...)
	closer := func() {
		_ = fs.Close()
		_ = conn.Close()
	}

	return fs, loc.Path, closer, nil
}
