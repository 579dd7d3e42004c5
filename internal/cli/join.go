package cli

import (
	"fmt"

	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/pkg/posixpath"
)

// Join prints the composition of base and tail.
func (r *Runner) Join(cmd *config.JoinCmd) error {
	joined, err := posixpath.Join(cmd.Base, cmd.Tail)
	if err != nil {
		return err //nolint:wrapcheck // InvalidArgumentError names the argument
	}

	_, err = fmt.Fprintln(r.stdout, joined)
	if err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}
