package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/posixfs/internal/browse"
	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/pkg/filesystem"
)

// BrowseFunc runs the interactive browser until the user quits.
type BrowseFunc func(model browse.Model) error

// RunBrowser runs model as a bubbletea program on the terminal.
func RunBrowser(model browse.Model) error {
	// Only use alt screen if stdout is a TTY
	var opts []tea.ProgramOption
	if term.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}

	return nil
}

// Browse starts the browser at cmd.Path, or the working directory.
func (r *Runner) Browse(cmd *config.BrowseCmd) error {
	location := cmd.Path
	if location == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot determine working directory: %w", err)
		}

		location = wd
	}

	fsys, start, closeFS, err := r.openFileSystem(location)
	if err != nil {
		return err
	}
	defer closeFS()

	start, err = absoluteStart(fsys, start)
	if err != nil {
		return err
	}

	return r.browse(browse.New(fsys, start, browse.WithLogger(r.logger)))
}

// absoluteStart makes a local start path absolute. Remote paths must already
// be absolute since the server's working directory is unknown here.
func absoluteStart(fsys filesystem.FileSystem, start string) (string, error) {
	if strings.HasPrefix(start, "/") {
		return start, nil
	}

	if _, remote := fsys.(*filesystem.SFTPFileSystem); remote {
		return "", fmt.Errorf("browse needs an absolute remote path, e.g. sftp://user@host//home/user: got %q", start) //nolint:err113 // Validation error with actual value
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", start, err)
	}

	return abs, nil
}
