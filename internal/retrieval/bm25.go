package retrieval

import (
	"context"
	"math"

	"github.com/banglaclir/clir-search/internal/corpus"
)

// BM25 parameter defaults.
const (
	DefaultBM25K1 = 1.5
	DefaultBM25B  = 0.75

	// bm25Epsilon floors negative IDF values at epsilon times the mean
	// IDF, keeping very common terms from subtracting relevance.
	bm25Epsilon = 0.25
)

// BM25 is an Okapi BM25 retriever over tokenized documents.
type BM25 struct {
	coll  *corpus.Collection
	k1    float64
	b     float64
	avgdl float64

	// freqs[i] maps term to its frequency in document i.
	freqs []map[string]int

	// lengths[i] is the token count of document i.
	lengths []int

	// idf maps term to its (epsilon floored) inverse document frequency.
	idf map[string]float64
}

// NewBM25 builds the BM25 index over a collection. Zero or negative k1 and b
// fall back to the defaults.
func NewBM25(coll *corpus.Collection, k1, b float64) *BM25 {
	if k1 <= 0 {
		k1 = DefaultBM25K1
	}
	if b <= 0 {
		b = DefaultBM25B
	}

	m := &BM25{
		coll:    coll,
		k1:      k1,
		b:       b,
		freqs:   make([]map[string]int, coll.Len()),
		lengths: make([]int, coll.Len()),
		idf:     make(map[string]float64),
	}

	df := make(map[string]int)
	total := 0

	for i, doc := range coll.Docs() {
		freq := make(map[string]int, len(doc.Tokens))
		for _, t := range doc.Tokens {
			freq[t]++
		}

		m.freqs[i] = freq
		m.lengths[i] = len(doc.Tokens)
		total += len(doc.Tokens)

		for t := range freq {
			df[t]++
		}
	}

	if coll.Len() > 0 {
		m.avgdl = float64(total) / float64(coll.Len())
	}

	m.computeIDF(df)

	return m
}

// computeIDF calculates per-term IDF, then replaces negative values with a
// fraction of the mean IDF.
func (m *BM25) computeIDF(df map[string]int) {
	n := float64(m.coll.Len())

	var sum float64
	var negative []string

	for term, count := range df {
		idf := math.Log((n - float64(count) + 0.5) / (float64(count) + 0.5))
		m.idf[term] = idf
		sum += idf

		if idf < 0 {
			negative = append(negative, term)
		}
	}

	if len(m.idf) == 0 {
		return
	}

	eps := bm25Epsilon * (sum / float64(len(m.idf)))
	for _, term := range negative {
		m.idf[term] = eps
	}
}

// Name returns the model name.
func (m *BM25) Name() string { return ModelBM25 }

// Input declares that BM25 consumes query tokens.
func (m *BM25) Input() QueryInput { return QueryTokens }

// Search scores every document against the query tokens and returns the
// topK best.
func (m *BM25) Search(ctx context.Context, q Query, topK int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make([]float64, m.coll.Len())

	for _, token := range q.Tokens {
		idf, ok := m.idf[token]
		if !ok {
			continue
		}

		for i := range scores {
			f := float64(m.freqs[i][token])
			if f == 0 {
				continue
			}

			dl := float64(m.lengths[i])
			denom := f + m.k1*(1-m.b+m.b*dl/m.avgdl)
			scores[i] += idf * f * (m.k1 + 1) / denom
		}
	}

	hits := make([]Hit, 0, topK)
	for _, i := range topIndices(scores, topK) {
		hits = append(hits, Hit{Doc: m.coll.Doc(i), RawScore: scores[i]})
	}

	return hits, nil
}
