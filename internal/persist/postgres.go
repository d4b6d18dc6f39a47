package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
)

// PostgresStore keeps the latest snapshot in a single-row table, for
// deployments where several tools share the knowledge base.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS knowledge_snapshots (
		id       TEXT PRIMARY KEY,
		payload  JSONB NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*knowledge.Snapshot, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		"SELECT payload FROM knowledge_snapshots WHERE id = 'current'").Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap knowledge.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", knowledge.ErrInvalidSnapshot, err)
	}
	return &snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap *knowledge.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO knowledge_snapshots (id, payload, saved_at) VALUES ('current', $1, now())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, saved_at = now()`,
		payload,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
