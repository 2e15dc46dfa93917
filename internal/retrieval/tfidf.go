package retrieval

import (
	"context"
	"math"

	"github.com/banglaclir/clir-search/internal/corpus"
)

// TFIDF is a cosine similarity retriever over smoothed TF-IDF vectors.
// Document and query vectors are L2 normalized, so the dot product of the
// sparse representations is the cosine.
type TFIDF struct {
	coll *corpus.Collection

	// idf maps term to ln((1+N)/(1+df)) + 1.
	idf map[string]float64

	// vectors[i] is the L2 normalized sparse TF-IDF vector of document i.
	vectors []map[string]float64
}

// NewTFIDF builds the TF-IDF index over a collection.
func NewTFIDF(coll *corpus.Collection) *TFIDF {
	m := &TFIDF{
		coll:    coll,
		idf:     make(map[string]float64),
		vectors: make([]map[string]float64, coll.Len()),
	}

	df := make(map[string]int)
	freqs := make([]map[string]int, coll.Len())

	for i, doc := range coll.Docs() {
		freq := make(map[string]int, len(doc.Tokens))
		for _, t := range doc.Tokens {
			freq[t]++
		}
		freqs[i] = freq

		for t := range freq {
			df[t]++
		}
	}

	n := float64(coll.Len())
	for term, count := range df {
		m.idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	for i, freq := range freqs {
		m.vectors[i] = m.vectorize(freq)
	}

	return m
}

// vectorize builds an L2 normalized sparse TF-IDF vector from term counts.
// Terms outside the vocabulary are dropped.
func (m *TFIDF) vectorize(freq map[string]int) map[string]float64 {
	vec := make(map[string]float64, len(freq))

	var norm float64
	for term, count := range freq {
		idf, ok := m.idf[term]
		if !ok {
			continue
		}
		w := float64(count) * idf
		vec[term] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}

	return vec
}

// Name returns the model name.
func (m *TFIDF) Name() string { return ModelTFIDF }

// Input declares that TF-IDF consumes query tokens.
func (m *TFIDF) Input() QueryInput { return QueryTokens }

// Search scores every document by cosine similarity to the query vector and
// returns the topK best.
func (m *TFIDF) Search(ctx context.Context, q Query, topK int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	freq := make(map[string]int, len(q.Tokens))
	for _, t := range q.Tokens {
		freq[t]++
	}
	qvec := m.vectorize(freq)

	scores := make([]float64, m.coll.Len())
	for i, dvec := range m.vectors {
		scores[i] = sparseDot(qvec, dvec)
	}

	hits := make([]Hit, 0, topK)
	for _, i := range topIndices(scores, topK) {
		hits = append(hits, Hit{Doc: m.coll.Doc(i), RawScore: scores[i]})
	}

	return hits, nil
}

// sparseDot computes the dot product of two sparse vectors, iterating the
// smaller one.
func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}
