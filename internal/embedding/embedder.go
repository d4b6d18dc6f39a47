package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDim is the vector length used when no dimension is configured.
const DefaultDim = 384

// Embedder maps text to a fixed-length vector comparable via cosine similarity.
// Implementations must be deterministic: the same text always yields the same
// vector. A real semantic model can be swapped in behind this interface without
// touching retrieval or synthesis.
type Embedder interface {
	Embed(text string) []float64
	Dim() int
}

// HashedEmbedder is a lightweight lexical vectorizer: words and character
// trigrams are hashed into a fixed number of buckets and the resulting
// histogram is L2-normalized. It has no semantic understanding; it exists so
// that identical and near-identical phrasings land close together under cosine
// similarity.
type HashedEmbedder struct {
	dim int
}

func NewHashedEmbedder(dim int) *HashedEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &HashedEmbedder{dim: dim}
}

func (e *HashedEmbedder) Dim() int { return e.dim }

// Embed returns the zero vector for empty or whitespace-only input.
func (e *HashedEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return vec
	}

	words := tokenize(text)
	for _, w := range words {
		vec[bucket(w, e.dim)]++
		for _, g := range trigrams(w) {
			vec[bucket(g, e.dim)] += 0.5
		}
	}

	normalize(vec)
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func trigrams(word string) []string {
	if len(word) < 3 {
		return nil
	}
	out := make([]string, 0, len(word)-2)
	for i := 0; i+3 <= len(word); i++ {
		out = append(out, word[i:i+3])
	}
	return out
}

func bucket(token string, dim int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dim))
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine computes cosine similarity between two vectors. Mismatched lengths or
// zero vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
