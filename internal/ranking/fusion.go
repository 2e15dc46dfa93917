package ranking

import (
	"sort"

	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/retrieval"
)

// DefaultWeights returns the default fusion weights. Lexical precision
// carries most of the weight, with semantic recall close behind.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		retrieval.ModelBM25:     0.3,
		retrieval.ModelTFIDF:    0.2,
		retrieval.ModelFuzzy:    0.2,
		retrieval.ModelSemantic: 0.3,
	}
}

// FusedEntry is a document scored by the weighted combination of models.
type FusedEntry struct {
	// Rank is the 1-based position.
	Rank int `json:"rank"`

	// Doc is the ranked document.
	Doc corpus.Document `json:"doc"`

	// Score is the weighted sum of normalized model scores.
	Score float64 `json:"score"`

	// ModelScores holds each contributing model's normalized score for
	// this document.
	ModelScores map[string]float64 `json:"model_scores"`
}

// FusedResult is the hybrid ranking produced by merging model results.
type FusedResult struct {
	// Model is always "hybrid".
	Model string `json:"model"`

	// Weights are the weights used for this fusion.
	Weights map[string]float64 `json:"weights"`

	// Entries are the fused documents, best first.
	Entries []FusedEntry `json:"entries"`
}

// Merge combines per-model rankings into a single weighted ranking. A model
// with zero or negative weight is excluded; a document absent from a model's
// list contributes nothing for that model. Results are keyed by document ID,
// which the collection guarantees unique.
func Merge(results map[string]RankedResult, weights map[string]float64, topK int) FusedResult {
	if weights == nil {
		weights = DefaultWeights()
	}

	fused := make(map[string]*FusedEntry)

	// Iterate models in sorted order so accumulation is deterministic.
	models := make([]string, 0, len(results))
	for model := range results {
		models = append(models, model)
	}
	sort.Strings(models)

	for _, model := range models {
		w := weights[model]
		if w <= 0 {
			continue
		}

		for _, entry := range results[model].Entries {
			fe, ok := fused[entry.Doc.ID]
			if !ok {
				fe = &FusedEntry{
					Doc:         entry.Doc,
					ModelScores: make(map[string]float64),
				}
				fused[entry.Doc.ID] = fe
			}

			fe.ModelScores[model] = entry.Score
			fe.Score += w * entry.Score
		}
	}

	entries := make([]FusedEntry, 0, len(fused))
	for _, fe := range fused {
		entries = append(entries, *fe)
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		return entries[a].Doc.ID < entries[b].Doc.ID
	})

	if topK > 0 && len(entries) > topK {
		entries = entries[:topK]
	}

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return FusedResult{
		Model:   retrieval.ModelHybrid,
		Weights: weights,
		Entries: entries,
	}
}
