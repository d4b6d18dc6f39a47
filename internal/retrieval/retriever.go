package retrieval

import (
	"sort"
	"time"

	"github.com/jaysmobilewash/detailbrain/internal/embedding"
	"github.com/jaysmobilewash/detailbrain/internal/intent"
	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
)

const (
	// DefaultLimit bounds the ranked candidate list.
	DefaultLimit = 5

	recencyWindow   = 30 * 24 * time.Hour
	recencyMaxBoost = 0.2
	categoryBoost   = 0.3
)

// Candidate is a knowledge match annotated with its final relevance score.
type Candidate struct {
	knowledge.Match
	Relevance float64
}

// Retriever ranks knowledge entries against a query:
// relevance = similarity*confidence + recency boost + category boost.
type Retriever struct {
	embedder      embedding.Embedder
	store         *knowledge.Store
	minSimilarity float64
	limit         int
	now           func() time.Time
}

func NewRetriever(embedder embedding.Embedder, store *knowledge.Store) *Retriever {
	return &Retriever{
		embedder:      embedder,
		store:         store,
		minSimilarity: knowledge.DefaultMinSimilarity,
		limit:         DefaultLimit,
		now:           time.Now,
	}
}

// SetClock overrides the time source, for deterministic recency tests.
func (r *Retriever) SetClock(now func() time.Time) { r.now = now }

// Retrieve embeds the query once, scans the store, scores, and returns the
// top candidates in descending relevance. Ties keep insertion order.
func (r *Retriever) Retrieve(query string, intentType intent.Type) []Candidate {
	queryEmbedding := r.embedder.Embed(query)
	matches := r.store.Search(queryEmbedding, r.minSimilarity)
	if len(matches) == 0 {
		return nil
	}

	now := r.now()
	candidates := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		score := m.Similarity * m.Confidence
		score += recencyBoost(m.Entry, now)
		if m.Category == string(intentType) {
			score += categoryBoost
		}
		candidates = append(candidates, Candidate{Match: m, Relevance: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Relevance > candidates[j].Relevance
	})
	if len(candidates) > r.limit {
		candidates = candidates[:r.limit]
	}
	return candidates
}

// recencyBoost favors recently learned entries: 0.2 at age zero, linearly
// down to nothing at 30 days. Entries without a LearnedAt stamp get no boost.
func recencyBoost(e knowledge.Entry, now time.Time) float64 {
	if e.LearnedAt == 0 {
		return 0
	}
	age := now.Sub(time.UnixMilli(e.LearnedAt))
	if age < 0 {
		age = 0
	}
	frac := 1 - age.Hours()/recencyWindow.Hours()
	if frac <= 0 {
		return 0
	}
	return frac * recencyMaxBoost
}
