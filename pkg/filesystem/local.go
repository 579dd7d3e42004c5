package filesystem

import (
	"fmt"
	"log/slog"
	"runtime"
)

// localScanner implements EntryScanner over a native directory handle.
type localScanner struct {
	path    string
	handle  *dirHandle
	err     error
	logger  *slog.Logger
	metrics *Metrics
	cleanup runtime.Cleanup
}

// abandonedHandle is what the runtime cleanup needs to release a handle
// without reaching the scanner.
type abandonedHandle struct {
	handle  *dirHandle
	metrics *Metrics
}

// newLocalScanner opens the directory and ties the handle to the scanner.
// A scanner dropped without Close has its handle closed by the runtime cleanup.
func newLocalScanner(path string, logger *slog.Logger, metrics *Metrics) (*localScanner, error) {
	handle, err := openDir(path)
	if err != nil {
		metrics.openFailed(backendLocal)
		return nil, &OpenError{Path: path, Err: err}
	}

	metrics.opened(backendLocal)

	scanner := &localScanner{
		path:    path,
		handle:  handle,
		logger:  logger,
		metrics: metrics,
	}
	scanner.cleanup = runtime.AddCleanup(scanner, closeAbandonedHandle, abandonedHandle{handle: handle, metrics: metrics})

	return scanner, nil
}

// Close releases the directory handle.
func (s *localScanner) Close() error {
	return s.release()
}

// Err returns the read error that ended the scan, if any.
func (s *localScanner) Err() error {
	return s.err
}

// Next reads the next entry from the handle.
// The handle is closed as soon as the directory is exhausted.
func (s *localScanner) Next() (DirectoryEntry, bool) {
	if s.handle == nil {
		return DirectoryEntry{}, false
	}

	entry, ok, err := s.handle.read()
	if ok {
		// The cleanup must not close the handle while read is using it.
		runtime.KeepAlive(s)

		return entry, true
	}

	// Read failures end the sequence like exhaustion does.
	if err != nil {
		s.err = fmt.Errorf("failed to read directory %s: %w", s.path, err)
		s.logger.Warn("directory read failed, ending scan", "path", s.path, "error", err)
		s.metrics.readFailed(backendLocal)
	}

	_ = s.release()

	return DirectoryEntry{}, false
}

func (s *localScanner) release() error {
	if s.handle == nil {
		return nil
	}

	s.cleanup.Stop()

	handle := s.handle
	s.handle = nil
	s.metrics.released(backendLocal)

	err := handle.close()
	if err != nil {
		return fmt.Errorf("failed to close directory %s: %w", s.path, err)
	}

	return nil
}

func closeAbandonedHandle(abandoned abandonedHandle) {
	_ = abandoned.handle.close()
	abandoned.metrics.released(backendLocal)
}
