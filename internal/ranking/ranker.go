// Package ranking normalizes model-native scores into a comparable [0, 1]
// scale, fuses model rankings, and flags low-confidence results.
package ranking

import (
	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/retrieval"
)

// Entry is a ranked document with both score scales.
type Entry struct {
	// Rank is the 1-based position.
	Rank int `json:"rank"`

	// Doc is the ranked document.
	Doc corpus.Document `json:"doc"`

	// Score is the normalized score in [0, 1].
	Score float64 `json:"score"`

	// RawScore is the model-native score.
	RawScore float64 `json:"raw_score"`

	// Model is the model that produced this entry.
	Model string `json:"model"`
}

// RankedResult is one model's ranked list for a query.
type RankedResult struct {
	// Model is the model name.
	Model string `json:"model"`

	// TopK is the requested result count.
	TopK int `json:"top_k"`

	// Entries are the ranked documents, best first.
	Entries []Entry `json:"entries"`
}

// normalizer maps a raw score to [0, 1]. max is the largest raw score in
// the result list.
type normalizer func(raw, max float64) float64

// maxNorm divides by the list maximum so the top result scores 1.0. An
// all-zero list stays all zero.
func maxNorm(raw, max float64) float64 {
	if max == 0 {
		return 0
	}
	return raw / max
}

// ratioNorm maps the 0 to 100 string similarity scale to [0, 1].
func ratioNorm(raw, _ float64) float64 {
	return raw / 100
}

// cosineNorm maps cosine similarity from [-1, 1] to [0, 1].
func cosineNorm(raw, _ float64) float64 {
	s := (raw + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// identityNorm passes raw scores through unchanged.
func identityNorm(raw, _ float64) float64 {
	return raw
}

// normalizers maps model names to their score normalization. Unknown models
// pass through unchanged.
var normalizers = map[string]normalizer{
	retrieval.ModelBM25:     maxNorm,
	retrieval.ModelTFIDF:    maxNorm,
	retrieval.ModelFuzzy:    ratioNorm,
	retrieval.ModelSemantic: cosineNorm,
}

// Ranker converts model hits into ranked, normalized results.
type Ranker struct{}

// NewRanker creates a Ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank normalizes hit scores for the given model and assigns 1-based ranks.
// Hit order is preserved; normalization is monotone, so ranks never change.
// Hits beyond topK are dropped.
func (r *Ranker) Rank(model string, hits []retrieval.Hit, topK int) RankedResult {
	norm, ok := normalizers[model]
	if !ok {
		norm = identityNorm
	}

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	var max float64
	for _, h := range hits {
		if h.RawScore > max {
			max = h.RawScore
		}
	}

	entries := make([]Entry, 0, len(hits))
	for i, h := range hits {
		entries = append(entries, Entry{
			Rank:     i + 1,
			Doc:      h.Doc,
			Score:    norm(h.RawScore, max),
			RawScore: h.RawScore,
			Model:    model,
		})
	}

	return RankedResult{Model: model, TopK: topK, Entries: entries}
}
