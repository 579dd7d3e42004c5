package filesystem

import (
	"fmt"
	"log/slog"
)

// SFTPFileSystem implements FileSystem for SFTP connections.
type SFTPFileSystem struct {
	pool    *SFTPClientPool
	logger  *slog.Logger
	metrics *Metrics
}

// NewSFTPFileSystem creates an SFTP filesystem drawing clients from pool.
// The filesystem takes ownership of the pool.
func NewSFTPFileSystem(pool *SFTPClientPool, opts ...Option) *SFTPFileSystem {
	o := newOptions(opts)

	return &SFTPFileSystem{
		pool:    pool,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Close closes the SFTP client pool and releases all resources.
func (fs *SFTPFileSystem) Close() error {
	if fs.pool != nil {
		return fs.pool.Close()
	}

	return nil
}

// Scan lists a remote directory. The scanner holds one pooled client until it
// is exhausted or closed.
func (fs *SFTPFileSystem) Scan(path string) (EntryScanner, error) {
	client, err := fs.pool.Acquire()
	if err != nil {
		fs.metrics.openFailed(backendSFTP)
		return nil, &OpenError{Path: path, Err: fmt.Errorf("failed to acquire SFTP client: %w", err)}
	}

	scanner, err := newRemoteScanner(clientLease{pool: fs.pool, client: client, metrics: fs.metrics}, path)
	if err != nil {
		fs.logger.Debug("remote directory open failed", "path", path, "error", err)
		return nil, err
	}

	return scanner, nil
}
