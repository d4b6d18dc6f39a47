package engine

import (
	"context"
	"fmt"

	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
)

// Report is the caller-facing metrics view.
type Report struct {
	TotalQueries            int64   `json:"totalQueries"`
	BaseTemplateResponses   int64   `json:"baseTemplateResponses"`
	ExternalAPICalls        int64   `json:"externalApiCalls"`
	LearningEvents          int64   `json:"learningEvents"`
	KnowledgeEntries        int     `json:"knowledgeEntries"`
	AverageConfidence       float64 `json:"averageConfidence"`
	BaseTemplateSuccessRate string  `json:"baseTemplateSuccessRate"`
	MemoryUsage             int64   `json:"memoryUsage"`
}

// Metrics returns the current counters. MemoryUsage approximates the bytes
// held by stored content and embeddings.
func (e *Engine) Metrics() Report {
	m := e.counters()
	rate := 0.0
	if m.TotalQueries > 0 {
		rate = float64(m.BaseTemplateResponses) / float64(m.TotalQueries) * 100
	}

	var usage int64
	for _, entry := range e.store.All() {
		usage += int64(len(entry.Content) + 8*len(entry.Embedding))
	}

	return Report{
		TotalQueries:            m.TotalQueries,
		BaseTemplateResponses:   m.BaseTemplateResponses,
		ExternalAPICalls:        m.ExternalAPICalls,
		LearningEvents:          m.LearningEvents,
		KnowledgeEntries:        e.store.Len(),
		AverageConfidence:       m.AverageConfidence,
		BaseTemplateSuccessRate: fmt.Sprintf("%.1f%%", rate),
		MemoryUsage:             usage,
	}
}

// ExportKnowledgeBase snapshots all entries plus counters.
func (e *Engine) ExportKnowledgeBase() *knowledge.Snapshot {
	return e.store.Snapshot(e.counters())
}

// ImportKnowledgeBase replaces the knowledge base wholesale with the snapshot
// contents, counters included. Malformed snapshots are rejected with
// knowledge.ErrInvalidSnapshot and leave the store untouched.
func (e *Engine) ImportKnowledgeBase(ctx context.Context, snap *knowledge.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := e.store.Restore(snap); err != nil {
		return err
	}
	e.restoreStats(snap.Metrics)
	e.persistNow(ctx)
	return nil
}

// ClearKnowledgeBase drops every entry, the conversation window, and the
// counters.
func (e *Engine) ClearKnowledgeBase(ctx context.Context) {
	e.store.Clear()
	e.memory.Clear()

	e.stats.mu.Lock()
	e.stats.totalQueries = 0
	e.stats.baseTemplateResponses = 0
	e.stats.externalAPICalls = 0
	e.stats.learningEvents = 0
	e.stats.confidenceSum = 0
	e.stats.mu.Unlock()

	e.persistNow(ctx)
}
