//nolint:testpackage // Shared helpers for internal tests
package filesystem

import (
	"io"
	"log/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
