// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/posixfs/internal/logging"
)

// ProgramName is the name used in usage and version output.
const ProgramName = "posixfs"

// ErrNoCommand is returned when no subcommand was given.
var ErrNoCommand = errors.New("a command is required: scan, join, run or browse")

// ScanCmd lists one directory.
type ScanCmd struct {
	Path   string `arg:"positional,required" help:"Directory to list (local path or sftp://user@host[:port]/path)"`
	JSON   bool   `arg:"--json" help:"Print one JSON object per entry"`
	NoDots bool   `arg:"--no-dots" help:"Hide the . and .. entries"`
}

// JoinCmd composes two path segments.
type JoinCmd struct {
	Base string `arg:"positional,required" help:"Absolute base path"`
	Tail string `arg:"positional,required" help:"Relative tail, or .. to go up one level"`
}

// RunCmd runs a Starlark script.
type RunCmd struct {
	Script string   `arg:"positional,required" help:"Starlark script to run"`
	Args   []string `arg:"positional" help:"Arguments exposed to the script as argv"`
	Remote string   `arg:"--remote" help:"Scan through sftp://user@host[:port] instead of the local filesystem"`
}

// BrowseCmd starts the interactive browser.
type BrowseCmd struct {
	Path string `arg:"positional" help:"Absolute directory to start in (default: current directory)"`
}

// Config holds the application configuration
type Config struct {
	LogLevel  slog.Level     `arg:"--log-level,env:POSIXFS_LOG_LEVEL" default:"warn" help:"Log level: debug|info|warn|error"`
	LogFormat logging.Format `arg:"--log-format,env:POSIXFS_LOG_FORMAT" default:"text" help:"Log format: text|json"`

	MetricsFile string `arg:"--metrics-file,env:POSIXFS_METRICS_FILE" help:"Write Prometheus scan metrics to this file when the command finishes"`

	Scan   *ScanCmd   `arg:"subcommand:scan" help:"List one directory"`
	Join   *JoinCmd   `arg:"subcommand:join" help:"Print the join of BASE and TAIL"`
	Run    *RunCmd    `arg:"subcommand:run" help:"Run a Starlark script with posixfs predeclared"`
	Browse *BrowseCmd `arg:"subcommand:browse" help:"Browse directories interactively"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Scan directories and compose POSIX paths, from the shell or from Starlark scripts"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return ProgramName + " 1.0.0"
}

// Command returns the name of the selected subcommand, or "" if none.
func (cfg *Config) Command() string {
	switch {
	case cfg.Scan != nil:
		return "scan"
	case cfg.Join != nil:
		return "join"
	case cfg.Run != nil:
		return "run"
	case cfg.Browse != nil:
		return "browse"
	default:
		return ""
	}
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	parser := arg.MustParse(cfg)
	if cfg.Command() == "" {
		parser.Fail(ErrNoCommand.Error())
	}

	return PostProcessConfig(cfg)
}

// ParseArgs parses an explicit argument list (without the program name).
// Help and version requests come back as arg.ErrHelp and arg.ErrVersion.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}

	parser, err := arg.NewParser(arg.Config{Program: ProgramName}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	err = parser.Parse(args)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers compare against arg.ErrHelp
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Command() == "" {
		return nil, ErrNoCommand
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidatePaths checks the location arguments of the selected command.
// Only syntax is checked here; existence is reported by the scan itself.
func (cfg *Config) ValidatePaths() error {
	switch {
	case cfg.Scan != nil:
		if cfg.Scan.Path == "" {
			return fmt.Errorf("scan path is required") //nolint:err113 // Simple validation error
		}

		return validateLocation("scan path", cfg.Scan.Path)
	case cfg.Run != nil:
		if cfg.Run.Remote == "" {
			return nil
		}

		return validateLocation("remote", cfg.Run.Remote)
	case cfg.Browse != nil:
		if cfg.Browse.Path == "" {
			return nil
		}

		return validateLocation("browse path", cfg.Browse.Path)
	default:
		return nil
	}
}

func validateLocation(label, location string) error {
	if !strings.HasPrefix(location, "sftp://") {
		return nil
	}

	return validateSFTPURL(label, location)
}

// validateSFTPURL validates SFTP URL format
func validateSFTPURL(label, url string) error {
	rest := strings.TrimPrefix(url, "sftp://")

	atIdx := strings.Index(rest, "@")
	if atIdx == -1 {
		return fmt.Errorf("%s must include username: sftp://user@host/path", label) //nolint:err113 // Validation error with context
	}

	if atIdx == 0 {
		return fmt.Errorf("%s username cannot be empty", label) //nolint:err113 // Validation error with context
	}

	hostPart := rest[atIdx+1:]
	if slashIdx := strings.Index(hostPart, "/"); slashIdx != -1 {
		hostPart = hostPart[:slashIdx]
	}

	if hostPart == "" || strings.HasPrefix(hostPart, ":") {
		return fmt.Errorf("%s host cannot be empty", label) //nolint:err113 // Validation error with context
	}

	return nil
}
