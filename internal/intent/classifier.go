package intent

import (
	"regexp"
	"strings"
)

// Type is the coarse classification of a user query.
type Type string

const (
	Booking  Type = "booking"
	Pricing  Type = "pricing"
	Services Type = "services"
	Location Type = "location"
	General  Type = "general"
)

// Result carries the classified intent and the classifier's confidence in it.
type Result struct {
	Type       Type
	Confidence float64
}

const (
	matchedConfidence = 0.9
	generalConfidence = 0.5
)

type rule struct {
	intent  Type
	pattern *regexp.Regexp
}

// Classifier matches queries against an ordered priority list of keyword
// patterns. The first matching rule wins: a query containing both booking and
// pricing keywords classifies as booking because booking is checked first.
type Classifier struct {
	rules []rule
}

// Word boundaries keep short keywords from firing inside longer words
// ("area" must not match "areaXYZ", "serve" must not match "reserved").
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{Booking, regexp.MustCompile(`\b(book(ing)?|schedule|appointment|reserve|availability)\b|when can|what time|come out`)},
		{Pricing, regexp.MustCompile(`\b(price(s)?|cost(s)?|pricing|quote|estimate|fee(s)?)\b|how much`)},
		{Services, regexp.MustCompile(`\b(service(s)?|detail(ing)?|wash|clean(ing)?|ceramic|paint|interior|exterior)\b`)},
		{Location, regexp.MustCompile(`\b(where|location|area(s)?|serve)\b|come to|travel to`)},
	}}
}

// Classify is case-insensitive and never fails; unmatched queries fall back
// to the general intent at low confidence.
func (c *Classifier) Classify(query string) Result {
	q := strings.ToLower(query)
	for _, r := range c.rules {
		if r.pattern.MatchString(q) {
			return Result{Type: r.intent, Confidence: matchedConfidence}
		}
	}
	return Result{Type: General, Confidence: generalConfidence}
}
