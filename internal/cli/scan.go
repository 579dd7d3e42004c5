package cli

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/pkg/filesystem"
)

// scanRecord is one line of `scan --json` output.
type scanRecord struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Scan lists one directory, entry by entry, as the scanner yields them.
func (r *Runner) Scan(cmd *config.ScanCmd) error {
	fsys, path, closeFS, err := r.openFileSystem(cmd.Path)
	if err != nil {
		return err
	}
	defer closeFS()

	scanner, err := fsys.Scan(path)
	if err != nil {
		return err //nolint:wrapcheck // OpenError names the path
	}
	defer scanner.Close()

	encoder := json.NewEncoder(r.stdout)

	for entry := range filesystem.Entries(scanner) {
		if cmd.NoDots && isDotEntry(entry.Name) {
			continue
		}

		if cmd.JSON {
			err = encoder.Encode(scanRecord{Name: entry.Name, Type: int(entry.Type)})
			if err != nil {
				return fmt.Errorf("failed to write entry %s: %w", entry.Name, err)
			}

			continue
		}

		_, err = fmt.Fprintf(r.stdout, "%s  %s\n", r.styles.RenderType(entry.Type), r.styles.Entry(entry.Type).Render(entry.Name))
		if err != nil {
			return fmt.Errorf("failed to write entry %s: %w", entry.Name, err)
		}
	}

	return scanner.Err() //nolint:wrapcheck // Already wrapped with the directory path
}

func isDotEntry(name string) bool {
	return lo.Contains([]string{".", ".."}, name)
}
