// Package filesystem scans single directories through a lazy, handle-owning
// iterator, with local, SFTP and in-memory backends behind one interface.
package filesystem

import (
	"log/slog"
)

// Option configures a FileSystem backend.
type Option func(*options)

// WithLogger sets the logger used to report read errors that end a scan.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records scans and open handles in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

type options struct {
	logger  *slog.Logger
	metrics *Metrics
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// RealFileSystem scans directories on the local host.
type RealFileSystem struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem(opts ...Option) *RealFileSystem {
	o := newOptions(opts)

	return &RealFileSystem{logger: o.logger, metrics: o.metrics}
}

// Scan opens path as a directory and returns a scanner bound to the open handle.
func (fs *RealFileSystem) Scan(path string) (EntryScanner, error) {
	scanner, err := newLocalScanner(path, fs.logger, fs.metrics)
	if err != nil {
		return nil, err
	}

	return scanner, nil
}
