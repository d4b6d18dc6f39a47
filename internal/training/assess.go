package training

import (
	"strings"

	"github.com/jaysmobilewash/detailbrain/internal/intent"
	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
	"github.com/jaysmobilewash/detailbrain/internal/profile"
)

const (
	minLearnableLength = 50
	longTextLength     = 100
	duplicateThreshold = 0.8
	maxTags            = 5
)

// hedges mark answers the external model itself was unsure about; learning
// from them would poison the knowledge base.
var hedges = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i don't have",
	"i cannot answer",
}

// placeholders mark filler text that looks long enough to learn but says
// nothing.
var placeholders = []string{
	"lorem ipsum",
	"placeholder",
	"content not fetched",
	"coming soon",
}

// Assessment is the outcome of a knowledge-value judgment. Rejections are
// first-class results, not errors.
type Assessment struct {
	ShouldLearn bool
	Confidence  float64
	Reason      string
}

// Assessor applies the business profile's marker lists to decide whether text
// is worth storing and how much to trust it.
type Assessor struct {
	prof       *profile.Profile
	classifier *intent.Classifier
}

func NewAssessor(prof *profile.Profile) *Assessor {
	return &Assessor{prof: prof, classifier: intent.NewClassifier()}
}

// AssessExternal grades a response obtained from an external API.
// existing is scanned linearly for near-duplicates; acceptable at the store's
// bounded scale.
func (a *Assessor) AssessExternal(response string, existing []knowledge.Entry) Assessment {
	text := strings.TrimSpace(response)
	if len(text) < minLearnableLength {
		return Assessment{Reason: "too_short"}
	}
	lower := strings.ToLower(text)
	for _, h := range hedges {
		if strings.Contains(lower, h) {
			return Assessment{Reason: "hedged_response"}
		}
	}
	if containsAny(lower, a.prof.BusinessMarkers) {
		return Assessment{ShouldLearn: true, Confidence: 0.9, Reason: "business_specific"}
	}
	if containsAny(lower, a.prof.DomainKeywords) {
		return Assessment{ShouldLearn: true, Confidence: 0.7, Reason: "domain_relevant"}
	}
	if len(text) > longTextLength && !a.isNearDuplicate(text, existing) {
		return Assessment{ShouldLearn: true, Confidence: 0.5, Reason: "potentially_valuable"}
	}
	return Assessment{Reason: "no_clear_value"}
}

// AssessChunk grades a chunk of bulk training content. A simpler sibling of
// AssessExternal: no length floor, no duplicate scan.
func (a *Assessor) AssessChunk(chunk string) Assessment {
	text := strings.TrimSpace(chunk)
	if text == "" {
		return Assessment{Reason: "empty"}
	}
	lower := strings.ToLower(text)
	if containsAny(lower, a.prof.BusinessMarkers) {
		return Assessment{ShouldLearn: true, Confidence: 0.95, Reason: "business_specific"}
	}
	if containsAny(lower, a.prof.ServiceKeywords) {
		return Assessment{ShouldLearn: true, Confidence: 0.8, Reason: "service_related"}
	}
	if len(text) > longTextLength && !containsAny(lower, placeholders) {
		return Assessment{ShouldLearn: true, Confidence: 0.6, Reason: "generic_content"}
	}
	return Assessment{Reason: "no_clear_value"}
}

// Categorize maps learned text onto the intent-aligned categories so that
// retrieval's category boost can reach it. Off-topic text lands in "learned".
func (a *Assessor) Categorize(text string) string {
	res := a.classifier.Classify(text)
	if res.Type == intent.General {
		return knowledge.CategoryLearned
	}
	return string(res.Type)
}

// ExtractTags pulls up to five distinctive lowercase keywords in order of
// appearance.
func ExtractTags(text string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,!?;:()\"'")
		if len(w) <= 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func (a *Assessor) isNearDuplicate(text string, existing []knowledge.Entry) bool {
	for _, e := range existing {
		if JaccardWords(text, e.Content) > duplicateThreshold {
			return true
		}
	}
	return false
}

// JaccardWords computes word-set Jaccard similarity, the near-duplicate test.
func JaccardWords(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(w, ".,!?;:()\"'")] = true
	}
	delete(set, "")
	return set
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "your": true,
	"have": true, "will": true, "they": true, "been": true, "were": true,
	"their": true, "would": true, "about": true, "which": true, "there": true,
	"when": true, "what": true, "also": true, "more": true, "some": true,
	"into": true, "them": true, "then": true, "than": true, "very": true,
}
