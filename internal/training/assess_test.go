package training

import (
	"strings"
	"testing"

	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
	"github.com/jaysmobilewash/detailbrain/internal/profile"
)

func newAssessor() *Assessor {
	return NewAssessor(profile.Default())
}

func TestAssessExternalRejectsShortAndHedged(t *testing.T) {
	a := newAssessor()
	if got := a.AssessExternal("Yes.", nil); got.ShouldLearn {
		t.Fatalf("short response should be rejected, got %+v", got)
	}
	hedged := "I don't know much about that topic, but here is a long filler sentence to pass the length check."
	if got := a.AssessExternal(hedged, nil); got.ShouldLearn {
		t.Fatalf("hedged response should be rejected, got %+v", got)
	}
}

func TestAssessExternalConfidenceTiers(t *testing.T) {
	a := newAssessor()
	cases := []struct {
		name string
		text string
		want float64
	}{
		{
			"business marker",
			"Jay's Mobile Wash covers all of Orange County with on-site service every day of the week.",
			0.9,
		},
		{
			"domain keyword",
			"Ceramic coating bonds with the clear coat and protects paint for years when maintained correctly.",
			0.7,
		},
		{
			"long novel text",
			"Regular maintenance of any vehicle finish starts with a careful two-bucket hand process and proper drying towels to avoid swirl marks over time.",
			0.5,
		},
	}

	for _, tc := range cases {
		got := a.AssessExternal(tc.text, nil)
		if !got.ShouldLearn || got.Confidence != tc.want {
			t.Fatalf("%s: AssessExternal() = %+v, want confidence %v", tc.name, got, tc.want)
		}
	}
}

func TestAssessExternalRejectsNearDuplicate(t *testing.T) {
	a := newAssessor()
	text := "Regular maintenance of any vehicle finish starts with a careful two-bucket hand process and proper drying towels to avoid swirl marks over time."
	existing := []knowledge.Entry{{Content: text}}
	if got := a.AssessExternal(text, existing); got.ShouldLearn {
		t.Fatalf("near-duplicate should be rejected, got %+v", got)
	}
}

func TestAssessChunkTiers(t *testing.T) {
	a := newAssessor()
	if got := a.AssessChunk("Jay's Mobile Wash offers ceramic coating in Beverly Hills"); got.Confidence != 0.95 {
		t.Fatalf("business marker chunk = %+v, want 0.95", got)
	}
	if got := a.AssessChunk("our exterior wax packages shine"); got.Confidence != 0.8 {
		t.Fatalf("service keyword chunk = %+v, want 0.8", got)
	}
	generic := "Customers throughout the region consistently mention how convenient it is when professionals come directly to them at home."
	if got := a.AssessChunk(generic); got.Confidence != 0.6 {
		t.Fatalf("generic chunk = %+v, want 0.6", got)
	}
	if got := a.AssessChunk("short filler"); got.ShouldLearn {
		t.Fatalf("valueless chunk should be rejected, got %+v", got)
	}
}

func TestAssessChunkRejectsPlaceholder(t *testing.T) {
	a := newAssessor()
	text := "Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua."
	if got := a.AssessChunk(text); got.ShouldLearn {
		t.Fatalf("placeholder text should be rejected, got %+v", got)
	}
}

func TestJaccardWords(t *testing.T) {
	if got := JaccardWords("the quick brown fox", "the quick brown fox"); got != 1.0 {
		t.Fatalf("identical Jaccard = %v, want 1.0", got)
	}
	if got := JaccardWords("alpha beta", "gamma delta"); got != 0 {
		t.Fatalf("disjoint Jaccard = %v, want 0", got)
	}
	if got := JaccardWords("", "anything"); got != 0 {
		t.Fatalf("empty Jaccard = %v, want 0", got)
	}
}

func TestCategorizeAlignsWithIntents(t *testing.T) {
	a := newAssessor()
	if got := a.Categorize("call to schedule an appointment today"); got != knowledge.CategoryBooking {
		t.Fatalf("Categorize(booking text) = %q", got)
	}
	if got := a.Categorize("random trivia about historical figures"); got != knowledge.CategoryLearned {
		t.Fatalf("Categorize(off-topic) = %q, want learned", got)
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("Ceramic coating protects paint from swirl marks. Ceramic again.")
	if len(tags) == 0 || len(tags) > 5 {
		t.Fatalf("ExtractTags() = %v, want 1..5 tags", tags)
	}
	seen := make(map[string]bool)
	for _, tag := range tags {
		if tag != strings.ToLower(tag) {
			t.Fatalf("tag %q not lowercase", tag)
		}
		if seen[tag] {
			t.Fatalf("duplicate tag %q", tag)
		}
		seen[tag] = true
	}
}
