package filesystem

import (
	"runtime"

	"github.com/pkg/sftp"
)

// clientLease is a pooled client on loan to one scanner.
type clientLease struct {
	pool    *SFTPClientPool
	client  *sftp.Client
	metrics *Metrics
}

func (l clientLease) release() {
	l.pool.Release(l.client)
	l.metrics.released(backendSFTP)
}

// remoteScanner implements EntryScanner for an SFTP directory listing.
// It keeps its pooled client until the listing is exhausted or closed.
type remoteScanner struct {
	lease   *clientLease
	entries []DirectoryEntry
	index   int
	cleanup runtime.Cleanup
}

// newRemoteScanner lists dir with the leased client. The library omits the
// "." and ".." entries the server sends, so they are put back in front.
func newRemoteScanner(lease clientLease, dir string) (*remoteScanner, error) {
	infos, err := lease.client.ReadDir(dir)
	if err != nil {
		lease.pool.Release(lease.client)
		lease.metrics.openFailed(backendSFTP)

		return nil, &OpenError{Path: dir, Err: err}
	}

	lease.metrics.opened(backendSFTP)

	entries := make([]DirectoryEntry, 0, len(infos)+2) //nolint:mnd // Room for the dot entries
	entries = append(entries,
		DirectoryEntry{Name: ".", Type: EntryDirectory},
		DirectoryEntry{Name: "..", Type: EntryDirectory},
	)

	for _, info := range infos {
		entries = append(entries, DirectoryEntry{Name: info.Name(), Type: EntryTypeFromMode(info.Mode())})
	}

	scanner := &remoteScanner{
		lease:   &lease,
		entries: entries,
	}
	scanner.cleanup = runtime.AddCleanup(scanner, clientLease.release, lease)

	return scanner, nil
}

// Close returns the client to the pool.
func (s *remoteScanner) Close() error {
	s.release()
	return nil
}

// Err returns nil; the listing is read when the scanner is opened.
func (s *remoteScanner) Err() error {
	return nil
}

// Next returns the next listed entry.
// Automatically releases the client back to the pool when the listing is exhausted.
func (s *remoteScanner) Next() (DirectoryEntry, bool) {
	if s.lease == nil {
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

func (s *remoteScanner) release() {
	if s.lease == nil {
		return
	}

	s.cleanup.Stop()
	s.lease.release()
	s.lease = nil
}
