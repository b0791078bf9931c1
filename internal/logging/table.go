// AngelaMos | 2026
// table.go

package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

type tableState struct {
	db      *sqlx.DB
	table   string
	once    sync.Once
	initErr error
}

func (s *tableState) ensure(ctx context.Context) error {
	s.once.Do(func() {
		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				level TEXT NOT NULL,
				message TEXT NOT NULL,
				attributes JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, s.table)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			s.initErr = fmt.Errorf("create log table: %w", err)
		}
	})
	return s.initErr
}

// TableHandler is a slog.Handler that appends records to a relational
// table. The table is created on the first record written.
type TableHandler struct {
	state  *tableState
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

func NewTableHandler(
	db *sqlx.DB,
	table string,
	level slog.Leveler,
) (*TableHandler, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid log table name %q", table)
	}
	if level == nil {
		level = slog.LevelInfo
	}

	return &TableHandler{
		state: &tableState{db: db, table: table},
		level: level,
	}, nil
}

func (h *TableHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *TableHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.state.ensure(ctx); err != nil {
		return err
	}

	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		putAttr(fields, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		putAttr(fields, h.prefix, a)
		return true
	})

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode log attributes: %w", err)
	}

	createdAt := r.Time
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (level, message, attributes, created_at) VALUES ($1, $2, $3, $4)`,
		h.state.table,
	)
	if _, err := h.state.db.ExecContext(
		ctx,
		query,
		r.Level.String(),
		r.Message,
		payload,
		createdAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert log record: %w", err)
	}

	return nil
}

func (h *TableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *TableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func putAttr(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}

	switch v.Kind() {
	case slog.KindGroup:
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range v.Group() {
			putAttr(fields, p, ga)
		}
	case slog.KindTime:
		fields[prefix+a.Key] = v.Time().UTC().Format(time.RFC3339Nano)
	case slog.KindDuration:
		fields[prefix+a.Key] = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			fields[prefix+a.Key] = err.Error()
			return
		}
		fields[prefix+a.Key] = v.Any()
	default:
		fields[prefix+a.Key] = v.Any()
	}
}
