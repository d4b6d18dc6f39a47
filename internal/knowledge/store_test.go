package knowledge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jaysmobilewash/detailbrain/internal/embedding"
)

func newTestStore(maxEntries int) *Store {
	return NewStore(embedding.NewHashedEmbedder(64), maxEntries)
}

func TestAddComputesEmbeddingAndOverwritesByID(t *testing.T) {
	s := newTestStore(0)
	e := s.Add(Entry{ID: "a", Content: "we offer ceramic coating", Category: CategoryServices, Confidence: 0.9})
	if len(e.Embedding) != 64 {
		t.Fatalf("embedding dim = %d, want 64", len(e.Embedding))
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Add(Entry{ID: "a", Content: "updated content", Category: CategoryGeneral, Confidence: 0.5})
	if s.Len() != 1 {
		t.Fatalf("Len() after overwrite = %d, want 1", s.Len())
	}
	got, ok := s.Get("a")
	if !ok || got.Content != "updated content" {
		t.Fatalf("Get(a) = %+v, %v; want overwritten entry", got, ok)
	}
}

func TestSearchEmptyStoreReturnsEmpty(t *testing.T) {
	s := newTestStore(0)
	emb := embedding.NewHashedEmbedder(64)
	got := s.Search(emb.Embed("anything"), DefaultMinSimilarity)
	if len(got) != 0 {
		t.Fatalf("Search() on empty store = %d matches, want 0", len(got))
	}
}

func TestSearchFiltersByThreshold(t *testing.T) {
	emb := embedding.NewHashedEmbedder(64)
	s := NewStore(emb, 0)
	s.Add(Entry{ID: "near", Content: "mobile detailing prices and quotes", Confidence: 0.8})
	s.Add(Entry{ID: "far", Content: "zzz qqq xxx", Confidence: 0.8})

	matches := s.Search(emb.Embed("mobile detailing prices"), 0.3)
	for _, m := range matches {
		if m.Similarity < 0.3 {
			t.Fatalf("match %q similarity %v below floor", m.ID, m.Similarity)
		}
	}
	found := false
	for _, m := range matches {
		if m.ID == "near" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected near entry in matches, got %+v", matches)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestStore(0)
	s.Add(Entry{ID: "a", Content: "fact one", Category: CategoryGeneral, Confidence: 0.7})
	s.Add(Entry{ID: "b", Content: "fact two", Category: CategoryLearned, Confidence: 0.9})

	snap := s.Snapshot(Metrics{TotalQueries: 5, LearningEvents: 2})
	if len(snap.Knowledge) != 2 {
		t.Fatalf("snapshot entries = %d, want 2", len(snap.Knowledge))
	}
	if snap.LastSaved == 0 {
		t.Fatalf("snapshot LastSaved not stamped")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", s.Len())
	}

	if err := s.Restore(snap); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() after Restore = %d, want 2", s.Len())
	}
	got, ok := s.Get("b")
	if !ok || got.Content != "fact two" {
		t.Fatalf("Get(b) after restore = %+v, %v", got, ok)
	}
}

func TestSnapshotJSONPairLayout(t *testing.T) {
	s := newTestStore(0)
	s.Add(Entry{ID: "x", Content: "hello world", Confidence: 0.5})
	data, err := json.Marshal(s.Snapshot(Metrics{}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw struct {
		Knowledge [][]json.RawMessage `json:"knowledge"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(raw.Knowledge) != 1 || len(raw.Knowledge[0]) != 2 {
		t.Fatalf("knowledge layout = %v, want one [id, entry] pair", raw.Knowledge)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("round-trip Unmarshal() error = %v", err)
	}
	if snap.Knowledge[0].ID != "x" || snap.Knowledge[0].Entry.Content != "hello world" {
		t.Fatalf("round-trip pair = %+v", snap.Knowledge[0])
	}
}

func TestRestoreRejectsMalformedSnapshot(t *testing.T) {
	s := newTestStore(0)
	bad := &Snapshot{Knowledge: []Pair{{ID: "", Entry: Entry{Content: "x"}}}}
	if err := s.Restore(bad); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("Restore() error = %v, want ErrInvalidSnapshot", err)
	}

	bad = &Snapshot{Knowledge: []Pair{{ID: "a", Entry: Entry{}}}}
	if err := s.Restore(bad); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("Restore() with empty content error = %v, want ErrInvalidSnapshot", err)
	}
}

func TestEvictionPrefersLowConfidenceAndSparesSeeds(t *testing.T) {
	s := newTestStore(2)
	s.Add(Entry{ID: "seed", Content: "core business fact", Source: SourceCoreKnowledge, Confidence: 0.2, SubmittedAt: 1})
	s.Add(Entry{ID: "weak", Content: "low value fact", Confidence: 0.3, SubmittedAt: 2})
	s.Add(Entry{ID: "strong", Content: "high value fact", Confidence: 0.9, SubmittedAt: 3})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after eviction", s.Len())
	}
	if _, ok := s.Get("weak"); ok {
		t.Fatalf("weak entry should have been evicted")
	}
	if _, ok := s.Get("seed"); !ok {
		t.Fatalf("seed entry must never be evicted")
	}
}

func TestChangeHookFiresOnMutation(t *testing.T) {
	s := newTestStore(0)
	calls := 0
	s.SetChangeHook(func() { calls++ })

	s.Add(Entry{ID: "a", Content: "fact", Confidence: 0.5})
	s.Clear()
	if calls != 2 {
		t.Fatalf("change hook calls = %d, want 2", calls)
	}
}
