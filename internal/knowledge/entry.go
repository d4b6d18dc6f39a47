package knowledge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conventional entry categories. Category is a free string on the wire; these
// are the values the engine itself assigns.
const (
	CategoryBusinessInfo = "business_info"
	CategoryServiceAreas = "service_areas"
	CategoryBooking      = "booking"
	CategoryPricing      = "pricing"
	CategoryServices     = "services"
	CategoryLocation     = "location"
	CategoryQAPair       = "qa_pair"
	CategoryGeneral      = "general"
	CategoryLearned      = "learned"
)

// Well-known provenance labels.
const (
	SourceCoreKnowledge = "core_knowledge"
	SourceTextTraining  = "text_training"
)

// Entry is a single stored fact. Entries are append-only: re-adding the same
// id overwrites, nothing mutates an entry in place after insertion.
//
// LearnedAt and SubmittedAt are epoch milliseconds; zero means unset.
type Entry struct {
	ID          string            `json:"id"`
	Content     string            `json:"content"`
	Category    string            `json:"category"`
	Confidence  float64           `json:"confidence"`
	Source      string            `json:"source"`
	Tags        []string          `json:"tags,omitempty"`
	Embedding   []float64         `json:"embedding"`
	LearnedAt   int64             `json:"learnedAt,omitempty"`
	SubmittedAt int64             `json:"submittedAt,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Match is an entry annotated with its cosine similarity to a query.
type Match struct {
	Entry
	Similarity float64
}

// NewEntryID builds a "source_timestamp_random" identifier.
func NewEntryID(source string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", source, now.UnixMilli(), uuid.NewString()[:8])
}
