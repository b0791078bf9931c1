// AngelaMos | 2026
// setup.go

package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/user-backend/internal/config"
)

func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewConsoleHandler builds the stdout handler selected by cfg.Format.
func NewConsoleHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewOperationSink fans console output out to the persistent sinks enabled
// in cfg. db may be nil when the table sink is disabled.
func NewOperationSink(
	cfg config.LogConfig,
	console slog.Handler,
	db *sqlx.DB,
) (*Sink, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	handlers := []slog.Handler{console}
	var closer io.Closer = nopCloser{}

	if cfg.FilePath != "" {
		fh, fc, err := OpenFile(cfg.FilePath, level)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, fh)
		closer = fc
	}

	if cfg.TableSink {
		if db == nil {
			_ = closer.Close() //nolint:errcheck // cleanup on setup failure
			return nil, nil, fmt.Errorf("table sink enabled without database")
		}
		th, err := NewTableHandler(db, cfg.Table, level)
		if err != nil {
			_ = closer.Close() //nolint:errcheck // cleanup on setup failure
			return nil, nil, err
		}
		handlers = append(handlers, th)
	}

	return NewSink(slog.New(NewFanout(handlers...))), closer, nil
}
