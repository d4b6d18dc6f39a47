package embedding

import (
	"math"
	"testing"
)

func TestEmbedDeterministic(t *testing.T) {
	e := NewHashedEmbedder(DefaultDim)
	a := e.Embed("mobile detailing in long beach")
	b := e.Embed("mobile detailing in long beach")
	if len(a) != DefaultDim || len(b) != DefaultDim {
		t.Fatalf("Embed() dim = %d/%d, want %d", len(a), len(b), DefaultDim)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Embed() not deterministic at index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestEmbedSelfSimilarity(t *testing.T) {
	e := NewHashedEmbedder(DefaultDim)
	v := e.Embed("ceramic coating protects paint")
	if sim := Cosine(v, v); math.Abs(sim-1.0) > 1e-9 {
		t.Fatalf("Cosine(v, v) = %v, want 1.0", sim)
	}
}

func TestEmbedEmptyReturnsZeroVector(t *testing.T) {
	e := NewHashedEmbedder(64)
	for _, text := range []string{"", "   ", "\n\t"} {
		v := e.Embed(text)
		if len(v) != 64 {
			t.Fatalf("Embed(%q) dim = %d, want 64", text, len(v))
		}
		for i, x := range v {
			if x != 0 {
				t.Fatalf("Embed(%q)[%d] = %v, want 0", text, i, x)
			}
		}
	}
}

func TestEmbedNormalized(t *testing.T) {
	e := NewHashedEmbedder(DefaultDim)
	v := e.Embed("full interior and exterior detail")
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("squared norm = %v, want 1.0", sum)
	}
}

func TestCosineMismatchedAndZero(t *testing.T) {
	if got := Cosine([]float64{1, 0}, []float64{1, 0, 0}); got != 0 {
		t.Fatalf("Cosine mismatched lengths = %v, want 0", got)
	}
	if got := Cosine([]float64{0, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("Cosine zero vector = %v, want 0", got)
	}
}

func TestSimilarTextsScoreHigherThanUnrelated(t *testing.T) {
	e := NewHashedEmbedder(DefaultDim)
	q := e.Embed("how much does ceramic coating cost")
	near := e.Embed("ceramic coating cost depends on vehicle size")
	far := e.Embed("zebra xylophone quartz")

	if Cosine(q, near) <= Cosine(q, far) {
		t.Fatalf("expected near text to outscore unrelated text: near=%v far=%v",
			Cosine(q, near), Cosine(q, far))
	}
}
