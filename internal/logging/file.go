// AngelaMos | 2026
// file.go

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenFile opens path for appending and returns a JSON handler writing to
// it. The caller closes the returned io.Closer on shutdown.
func OpenFile(path string, level slog.Leveler) (slog.Handler, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	//nolint:gosec // G304: path comes from operator config
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}), f, nil
}
