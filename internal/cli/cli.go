// Package cli implements the posixfs commands on top of the filesystem,
// posixpath and starlarkfs packages.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/internal/styles"
	errs "github.com/joe/posixfs/pkg/errors"
	"github.com/joe/posixfs/pkg/filesystem"
)

// Opener resolves a location (local path or sftp:// URL) to a filesystem,
// the path to scan on it, and a closer for any connection it opened.
type Opener func(location string, opts ...filesystem.Option) (filesystem.FileSystem, string, func(), error)

// Option configures a Runner.
type Option func(*Runner)

// WithOpener replaces filesystem.CreateFileSystem, e.g. with an in-memory tree.
func WithOpener(open Opener) Option {
	return func(r *Runner) {
		r.open = open
	}
}

// WithBrowser replaces the interactive browser launcher.
func WithBrowser(browse BrowseFunc) Option {
	return func(r *Runner) {
		r.browse = browse
	}
}

// Runner executes one parsed command.
type Runner struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	styles   styles.Styles
	open     Opener
	browse   BrowseFunc
	enricher errs.Enricher
	registry *prometheus.Registry
	metrics  *filesystem.Metrics
}

// New creates a Runner writing results to stdout and diagnostics to stderr.
func New(stdout, stderr io.Writer, logger *slog.Logger, opts ...Option) *Runner {
	metrics := filesystem.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics)

	r := &Runner{
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger,
		styles:   styles.New(lipgloss.NewRenderer(stdout)),
		open:     filesystem.CreateFileSystem,
		browse:   RunBrowser,
		enricher: errs.NewEnricher(),
		registry: registry,
		metrics:  metrics,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Execute dispatches cfg's subcommand. A failure is also reported on stderr
// with suggestions before being returned.
func (r *Runner) Execute(cfg *config.Config) error {
	err := r.dispatch(cfg)

	if cfg.MetricsFile != "" {
		if writeErr := r.WriteMetrics(cfg.MetricsFile); writeErr != nil && err == nil {
			err = writeErr
		}
	}

	if err != nil {
		err = r.enricher.Enrich(err)
		r.report(err)
	}

	return err
}

// WriteMetrics writes the scan metrics recorded so far in the Prometheus
// text format, replacing path atomically.
func (r *Runner) WriteMetrics(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}

func (r *Runner) dispatch(cfg *config.Config) error {
	switch {
	case cfg.Scan != nil:
		return r.Scan(cfg.Scan)
	case cfg.Join != nil:
		return r.Join(cfg.Join)
	case cfg.Run != nil:
		return r.Run(cfg.Run)
	case cfg.Browse != nil:
		return r.Browse(cfg.Browse)
	default:
		return config.ErrNoCommand
	}
}

func (r *Runner) report(err error) {
	fmt.Fprintf(r.stderr, "Error: %v\n", err)

	if suggestions := errs.FormatSuggestions(err); suggestions != "" {
		fmt.Fprintln(r.stderr, suggestions)
	}

	var actionable errs.ActionableError
	if errors.As(err, &actionable) {
		r.logger.Debug("command failed",
			"category", actionable.Category(),
			"path", actionable.AffectedPath(),
			"error", err)
	}
}

func (r *Runner) openFileSystem(location string) (filesystem.FileSystem, string, func(), error) {
	return r.open(location, r.fsOptions()...)
}

func (r *Runner) fsOptions() []filesystem.Option {
	return []filesystem.Option{filesystem.WithLogger(r.logger), filesystem.WithMetrics(r.metrics)}
}
