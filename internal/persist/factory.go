package persist

import (
	"context"
	"strings"
)

// Options selects a backend. Precedence: postgres, then sqlite, then file,
// then in-memory only.
type Options struct {
	DatabaseURL  string
	SQLitePath   string
	SnapshotPath string
}

// NewStore builds the configured backend, defaulting to in-memory only.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	if strings.TrimSpace(opts.DatabaseURL) != "" {
		return NewPostgresStore(ctx, opts.DatabaseURL)
	}
	if strings.TrimSpace(opts.SQLitePath) != "" {
		return NewSQLiteStore(opts.SQLitePath)
	}
	if strings.TrimSpace(opts.SnapshotPath) != "" {
		return NewFileStore(opts.SnapshotPath)
	}
	return NewNoopStore(), nil
}
