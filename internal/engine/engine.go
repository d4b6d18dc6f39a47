package engine

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jaysmobilewash/detailbrain/internal/convo"
	"github.com/jaysmobilewash/detailbrain/internal/embedding"
	"github.com/jaysmobilewash/detailbrain/internal/intent"
	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
	"github.com/jaysmobilewash/detailbrain/internal/observability"
	"github.com/jaysmobilewash/detailbrain/internal/persist"
	"github.com/jaysmobilewash/detailbrain/internal/profile"
	"github.com/jaysmobilewash/detailbrain/internal/retrieval"
	"github.com/jaysmobilewash/detailbrain/internal/training"
)

// DefaultConfidenceThreshold separates local answers from external deferrals.
const DefaultConfidenceThreshold = 0.7

// Response provenance labels.
const (
	SourceBaseTemplate          = "base_template"
	SourceInsufficientKnowledge = "insufficient_knowledge"
)

const (
	generalTopCandidates   = 3
	generalSimilarityFloor = 0.5
	learningQueueFlushAt   = 10
)

// templateConfidence is the fixed confidence of each canned intent answer.
var templateConfidence = map[intent.Type]float64{
	intent.Booking:  0.9,
	intent.Pricing:  0.8,
	intent.Services: 0.85,
	intent.Location: 0.9,
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	ConfidenceThreshold float64
	MemoryWindow        int
	MaxEntries          int
	EmbeddingDim        int
}

func (c Config) withDefaults() Config {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.MemoryWindow <= 0 {
		c.MemoryWindow = convo.DefaultWindowSize
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = knowledge.DefaultMaxEntries
	}
	if c.EmbeddingDim <= 0 {
		c.EmbeddingDim = embedding.DefaultDim
	}
	return c
}

// Result is the outcome of a query. When ShouldUseExternalAPI is true the
// caller is expected to consult its external model and feed the answer back
// via LearnFromExternalResponse.
type Result struct {
	Response             string      `json:"response,omitempty"`
	Confidence           float64     `json:"confidence"`
	Source               string      `json:"source"`
	ShouldUseExternalAPI bool        `json:"shouldUseExternalApi"`
	Intent               intent.Type `json:"intent"`
	UsedKnowledge        []string    `json:"usedKnowledge,omitempty"`
}

type stats struct {
	mu                    sync.Mutex
	totalQueries          int64
	baseTemplateResponses int64
	externalAPICalls      int64
	learningEvents        int64
	confidenceSum         float64
}

type learnEvent struct {
	query      string
	learned    bool
	confidence float64
	at         time.Time
}

// Engine is the trainable knowledge engine: classify, retrieve, synthesize or
// defer, and learn from external answers and bulk training content.
// Constructed explicitly with its storage dependency; no ambient globals.
type Engine struct {
	cfg        Config
	prof       *profile.Profile
	embedder   embedding.Embedder
	store      *knowledge.Store
	classifier *intent.Classifier
	retriever  *retrieval.Retriever
	assessor   *training.Assessor
	memory     *convo.Window
	storage    persist.Store
	obs        *observability.Metrics
	now        func() time.Time

	stats stats

	queueMu sync.Mutex
	queue   []learnEvent
}

// Option customizes an Engine.
type Option func(*Engine)

// WithObservability attaches Prometheus instruments.
func WithObservability(m *observability.Metrics) Option {
	return func(e *Engine) { e.obs = m }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
		e.retriever.SetClock(now)
	}
}

// WithEmbedder swaps the placeholder lexical embedder for a real model.
func WithEmbedder(emb embedding.Embedder) Option {
	return func(e *Engine) {
		e.embedder = emb
		e.store = knowledge.NewStore(emb, e.cfg.MaxEntries)
		e.retriever = retrieval.NewRetriever(emb, e.store)
		e.retriever.SetClock(e.now)
	}
}

func New(prof *profile.Profile, storage persist.Store, cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	emb := embedding.NewHashedEmbedder(cfg.EmbeddingDim)
	store := knowledge.NewStore(emb, cfg.MaxEntries)

	e := &Engine{
		cfg:        cfg,
		prof:       prof,
		embedder:   emb,
		store:      store,
		classifier: intent.NewClassifier(),
		retriever:  retrieval.NewRetriever(emb, store),
		assessor:   training.NewAssessor(prof),
		memory:     convo.NewWindow(cfg.MemoryWindow),
		storage:    storage,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init loads the persisted snapshot if one exists and seeds the core business
// knowledge when the store is otherwise empty. Persistence failures are
// logged and the engine continues in memory only. Seeding is idempotent: seed
// ids are stable, so a restored snapshot already containing them is left
// untouched.
func (e *Engine) Init(ctx context.Context) error {
	snap, err := e.storage.Load(ctx)
	if err != nil {
		log.Printf("knowledge snapshot load failed, continuing in memory: %v", err)
	} else if snap != nil {
		if err := e.store.Restore(snap); err != nil {
			log.Printf("knowledge snapshot restore failed, continuing empty: %v", err)
		} else {
			e.restoreStats(snap.Metrics)
		}
	}

	if e.store.Len() == 0 {
		e.seed()
	}

	// Write-through: every store mutation snapshots to the backend.
	e.store.SetChangeHook(func() { e.persistNow(context.Background()) })
	e.persistNow(ctx)
	e.syncEntriesGauge()
	return nil
}

func (e *Engine) seed() {
	now := e.now().UnixMilli()
	for _, s := range e.prof.Seeds {
		e.store.Add(knowledge.Entry{
			ID:          s.ID,
			Content:     s.Content,
			Category:    s.Category,
			Confidence:  s.Confidence,
			Source:      knowledge.SourceCoreKnowledge,
			Tags:        s.Tags,
			SubmittedAt: now,
		})
	}
}

// GenerateResponse classifies the query, retrieves ranked knowledge, and
// either synthesizes an answer or signals the caller to use an external API.
// Recent caller-side turns may be passed in; they are folded into
// conversation memory before the query turn.
func (e *Engine) GenerateResponse(ctx context.Context, query string, recent []convo.Turn) Result {
	_ = ctx

	it := e.classifier.Classify(query)
	candidates := e.retriever.Retrieve(query, it.Type)
	content, confidence, used := e.synthesize(candidates, it)

	deferToExternal := confidence < e.cfg.ConfidenceThreshold

	e.stats.mu.Lock()
	e.stats.totalQueries++
	e.stats.confidenceSum += confidence
	if deferToExternal {
		e.stats.externalAPICalls++
	} else {
		e.stats.baseTemplateResponses++
	}
	e.stats.mu.Unlock()

	now := e.now().UnixMilli()
	for _, t := range recent {
		e.memory.Append(t)
	}
	e.memory.Append(convo.Turn{Role: convo.RoleUser, Content: query, Timestamp: now})

	res := Result{
		Confidence:           confidence,
		ShouldUseExternalAPI: deferToExternal,
		Intent:               it.Type,
		UsedKnowledge:        used,
	}
	if deferToExternal {
		res.Source = SourceInsufficientKnowledge
		e.observeResponse("external", confidence)
		return res
	}

	res.Response = content
	res.Source = SourceBaseTemplate
	e.memory.Append(convo.Turn{
		Role:       convo.RoleAssistant,
		Content:    content,
		Timestamp:  now,
		Confidence: confidence,
		Source:     SourceBaseTemplate,
	})
	e.observeResponse(SourceBaseTemplate, confidence)
	return res
}

// synthesize dispatches on intent. The four business intents answer from
// canned templates; general queries concatenate the best matching knowledge.
func (e *Engine) synthesize(candidates []retrieval.Candidate, it intent.Result) (string, float64, []string) {
	if conf, ok := templateConfidence[it.Type]; ok {
		return e.prof.Template(string(it.Type)), conf, nil
	}

	var (
		parts []string
		used  []string
		seen  = make(map[string]bool)
		sum   float64
	)
	for _, c := range candidates {
		if c.Similarity <= generalSimilarityFloor {
			continue
		}
		if seen[c.Content] {
			continue
		}
		seen[c.Content] = true
		parts = append(parts, c.Content)
		used = append(used, c.ID)
		sum += c.Confidence * c.Similarity
		if len(parts) == generalTopCandidates {
			break
		}
	}
	if len(parts) == 0 {
		return "", 0, nil
	}

	content := strings.Join(parts, " ")
	if !strings.Contains(content, e.prof.Phone) {
		content += " " + e.prof.CallToAction
	}

	confidence := sum / float64(len(parts))
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return content, confidence, used
}

// ConversationMemory returns a copy of the bounded conversation window.
func (e *Engine) ConversationMemory() []convo.Turn {
	return e.memory.Turns()
}

func (e *Engine) restoreStats(m knowledge.Metrics) {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()
	e.stats.totalQueries = m.TotalQueries
	e.stats.baseTemplateResponses = m.BaseTemplateResponses
	e.stats.externalAPICalls = m.ExternalAPICalls
	e.stats.learningEvents = m.LearningEvents
	e.stats.confidenceSum = m.AverageConfidence * float64(m.TotalQueries)
}

func (e *Engine) counters() knowledge.Metrics {
	e.stats.mu.Lock()
	defer e.stats.mu.Unlock()
	m := knowledge.Metrics{
		TotalQueries:          e.stats.totalQueries,
		BaseTemplateResponses: e.stats.baseTemplateResponses,
		ExternalAPICalls:      e.stats.externalAPICalls,
		LearningEvents:        e.stats.learningEvents,
	}
	if e.stats.totalQueries > 0 {
		m.AverageConfidence = e.stats.confidenceSum / float64(e.stats.totalQueries)
	}
	return m
}

// persistNow snapshots the store to the configured backend. Best effort:
// failures are logged, never propagated.
func (e *Engine) persistNow(ctx context.Context) {
	snap := e.store.Snapshot(e.counters())
	if err := e.storage.Save(ctx, snap); err != nil {
		log.Printf("knowledge snapshot save failed, continuing in memory: %v", err)
	}
	e.syncEntriesGauge()
}

func (e *Engine) observeResponse(outcome string, confidence float64) {
	if e.obs == nil {
		return
	}
	e.obs.Queries.Inc()
	e.obs.Responses.WithLabelValues(outcome).Inc()
	e.obs.ResponseConfidence.Observe(confidence)
}

func (e *Engine) syncEntriesGauge() {
	if e.obs == nil {
		return
	}
	e.obs.KnowledgeEntries.Set(float64(e.store.Len()))
}
