package persist

import (
	"context"

	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
)

// Store persists knowledge snapshots. Load returns (nil, nil) when no
// snapshot exists yet. Save replaces the stored snapshot wholesale.
//
// The engine treats persistence as best effort: save/load failures are
// logged and the engine keeps operating in memory.
type Store interface {
	Load(ctx context.Context) (*knowledge.Snapshot, error)
	Save(ctx context.Context, snap *knowledge.Snapshot) error
	Close() error
}

// NoopStore keeps everything in memory only, for tests and ephemeral runs.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) Load(context.Context) (*knowledge.Snapshot, error) { return nil, nil }
func (*NoopStore) Save(context.Context, *knowledge.Snapshot) error   { return nil }
func (*NoopStore) Close() error                                      { return nil }
