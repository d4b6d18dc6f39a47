package knowledge

import (
	"sync"
	"time"

	"github.com/jaysmobilewash/detailbrain/internal/embedding"
)

// DefaultMaxEntries caps the store size. When exceeded, the lowest-confidence
// non-seed entries are evicted (oldest first on ties).
const DefaultMaxEntries = 10000

// DefaultMinSimilarity is the search floor below which matches are dropped.
const DefaultMinSimilarity = 0.3

// Store holds knowledge entries in memory, keyed by id, each with an
// embedding of the configured dimensionality. Iteration order is stable
// insertion order, which also serves as the tie-break for equal scores.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	order      []string
	embedder   embedding.Embedder
	maxEntries int
	onChange   func()
}

func NewStore(embedder embedding.Embedder, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries:    make(map[string]Entry),
		embedder:   embedder,
		maxEntries: maxEntries,
	}
}

// SetChangeHook registers a callback invoked after every mutation, used by the
// engine for write-through persistence. Failures there are the hook's problem;
// the store stays consistent regardless.
func (s *Store) SetChangeHook(hook func()) {
	s.mu.Lock()
	s.onChange = hook
	s.mu.Unlock()
}

// Add inserts or overwrites by id, computing the embedding when absent.
// Returns the stored entry.
func (s *Store) Add(e Entry) Entry {
	s.mu.Lock()
	if len(e.Embedding) != s.embedder.Dim() {
		e.Embedding = s.embedder.Embed(e.Content)
	}
	if e.SubmittedAt == 0 {
		e.SubmittedAt = time.Now().UnixMilli()
	}
	if _, exists := s.entries[e.ID]; !exists {
		s.order = append(s.order, e.ID)
	}
	s.entries[e.ID] = e
	s.evictOverCapLocked()
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return e
}

// Get returns the entry for id, if present.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// All returns every entry in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Search scans every entry and returns those with cosine similarity to the
// query at or above minSimilarity, in insertion order. An empty store yields
// an empty result, never an error.
func (s *Store) Search(queryEmbedding []float64, minSimilarity float64) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0)
	for _, id := range s.order {
		e := s.entries[id]
		sim := embedding.Cosine(queryEmbedding, e.Embedding)
		if sim >= minSimilarity {
			matches = append(matches, Match{Entry: e, Similarity: sim})
		}
	}
	return matches
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.order = nil
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Snapshot exports all entries plus the supplied counters.
func (s *Store) Snapshot(metrics Metrics) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Metrics:   metrics,
		LastSaved: time.Now().UnixMilli(),
	}
	for _, id := range s.order {
		snap.Knowledge = append(snap.Knowledge, Pair{ID: id, Entry: s.entries[id]})
	}
	return snap
}

// Restore replaces the store contents wholesale with the snapshot (not a
// merge). Entries whose embedding is missing or of the wrong dimensionality
// are re-embedded from content.
func (s *Store) Restore(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = make(map[string]Entry, len(snap.Knowledge))
	s.order = s.order[:0]
	for _, p := range snap.Knowledge {
		e := p.Entry
		e.ID = p.ID
		if len(e.Embedding) != s.embedder.Dim() {
			e.Embedding = s.embedder.Embed(e.Content)
		}
		if _, exists := s.entries[e.ID]; !exists {
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e
	}
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// evictOverCapLocked drops lowest-confidence non-seed entries until the store
// fits the cap again. Seed knowledge (core_knowledge source) is never evicted.
func (s *Store) evictOverCapLocked() {
	for len(s.entries) > s.maxEntries {
		victim := ""
		for _, id := range s.order {
			e := s.entries[id]
			if e.Source == SourceCoreKnowledge {
				continue
			}
			if victim == "" || lessValuable(e, s.entries[victim]) {
				victim = id
			}
		}
		if victim == "" {
			return
		}
		delete(s.entries, victim)
		s.order = removeID(s.order, victim)
	}
}

func lessValuable(a, b Entry) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence < b.Confidence
	}
	return a.SubmittedAt < b.SubmittedAt
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
