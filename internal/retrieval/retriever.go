// Package retrieval implements the four retrieval models compared by the
// evaluation pipeline: BM25, TF-IDF, fuzzy string matching, and dense
// semantic search.
package retrieval

import (
	"context"
	"sort"

	"github.com/banglaclir/clir-search/internal/corpus"
)

// Model names as they appear in results, fusion weights, and reports.
const (
	ModelBM25     = "bm25"
	ModelTFIDF    = "tfidf"
	ModelFuzzy    = "fuzzy"
	ModelSemantic = "semantic"
	ModelHybrid   = "hybrid"
)

// QueryInput declares which form of the query a retriever consumes.
type QueryInput int

const (
	// QueryTokens means the retriever scores preprocessed query tokens.
	QueryTokens QueryInput = iota

	// QueryRaw means the retriever scores the raw query string.
	QueryRaw
)

// Query carries both forms of a search query so every model receives the
// input it declares.
type Query struct {
	// Raw is the original query string.
	Raw string

	// Tokens is the preprocessed token sequence.
	Tokens []string
}

// Hit is a single scored document from one retrieval model. Scores are
// model-native; the ranking layer normalizes them into [0, 1].
type Hit struct {
	// Doc is the matched document.
	Doc corpus.Document

	// RawScore is the model-native score before normalization.
	RawScore float64
}

// Retriever scores documents against a query. Implementations are built
// once over a fixed collection and answer many queries.
type Retriever interface {
	// Name returns the model name.
	Name() string

	// Input declares which query form Search consumes.
	Input() QueryInput

	// Search returns the topK best documents with raw scores, best first.
	Search(ctx context.Context, q Query, topK int) ([]Hit, error)
}

// topIndices returns the indices of the k highest scores, best first.
// Ordering is deterministic: equal scores resolve to the higher collection
// index first. k larger than len(scores) returns all indices.
func topIndices(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}
	if k > len(scores) {
		k = len(scores)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	top := make([]int, 0, k)
	for i := len(order) - 1; i >= len(order)-k; i-- {
		top = append(top, order[i])
	}

	return top
}
