package ranking

import (
	"math"
	"testing"

	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/retrieval"
)

func rankedResult(model string, scores map[string]float64) RankedResult {
	result := RankedResult{Model: model}
	rank := 1
	for id, score := range scores {
		result.Entries = append(result.Entries, Entry{
			Rank:  rank,
			Doc:   corpus.Document{ID: id},
			Score: score,
			Model: model,
		})
		rank++
	}
	return result
}

func TestMergeWeightedSum(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25:     rankedResult(retrieval.ModelBM25, map[string]float64{"doc1": 1.0, "doc2": 0.5}),
		retrieval.ModelSemantic: rankedResult(retrieval.ModelSemantic, map[string]float64{"doc1": 0.8, "doc3": 0.9}),
	}
	weights := map[string]float64{
		retrieval.ModelBM25:     0.5,
		retrieval.ModelSemantic: 0.5,
	}

	fused := Merge(results, weights, 10)

	if fused.Model != retrieval.ModelHybrid {
		t.Errorf("Model = %s, want hybrid", fused.Model)
	}

	byID := make(map[string]FusedEntry)
	for _, e := range fused.Entries {
		byID[e.Doc.ID] = e
	}

	// doc1 appears in both models: 0.5*1.0 + 0.5*0.8.
	if math.Abs(byID["doc1"].Score-0.9) > 1e-9 {
		t.Errorf("doc1 score = %v, want 0.9", byID["doc1"].Score)
	}
	// doc3 only appears in semantic: the missing model contributes 0.
	if math.Abs(byID["doc3"].Score-0.45) > 1e-9 {
		t.Errorf("doc3 score = %v, want 0.45", byID["doc3"].Score)
	}

	if fused.Entries[0].Doc.ID != "doc1" {
		t.Errorf("top fused doc = %s, want doc1", fused.Entries[0].Doc.ID)
	}
	for i, e := range fused.Entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, e.Rank, i+1)
		}
	}
}

func TestMergeZeroWeightExcludesModel(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25:  rankedResult(retrieval.ModelBM25, map[string]float64{"doc1": 1.0}),
		retrieval.ModelFuzzy: rankedResult(retrieval.ModelFuzzy, map[string]float64{"doc2": 1.0}),
	}
	weights := map[string]float64{
		retrieval.ModelBM25:  1.0,
		retrieval.ModelFuzzy: 0,
	}

	fused := Merge(results, weights, 10)

	if len(fused.Entries) != 1 || fused.Entries[0].Doc.ID != "doc1" {
		t.Fatalf("entries = %v, want only doc1", fused.Entries)
	}
	if _, ok := fused.Entries[0].ModelScores[retrieval.ModelFuzzy]; ok {
		t.Error("zero-weight model must not contribute a model score")
	}
}

func TestMergeModelScoreBreakdown(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25:  rankedResult(retrieval.ModelBM25, map[string]float64{"doc1": 0.7}),
		retrieval.ModelTFIDF: rankedResult(retrieval.ModelTFIDF, map[string]float64{"doc1": 0.4}),
	}

	fused := Merge(results, map[string]float64{retrieval.ModelBM25: 0.5, retrieval.ModelTFIDF: 0.5}, 10)

	ms := fused.Entries[0].ModelScores
	if ms[retrieval.ModelBM25] != 0.7 || ms[retrieval.ModelTFIDF] != 0.4 {
		t.Errorf("ModelScores = %v, want per-model breakdown preserved", ms)
	}
}

func TestMergeTopKTruncation(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25: rankedResult(retrieval.ModelBM25,
			map[string]float64{"doc1": 0.9, "doc2": 0.8, "doc3": 0.7}),
	}

	fused := Merge(results, map[string]float64{retrieval.ModelBM25: 1.0}, 2)
	if len(fused.Entries) != 2 {
		t.Errorf("entries = %d, want 2", len(fused.Entries))
	}
}

func TestMergeNilWeightsUseDefaults(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25: rankedResult(retrieval.ModelBM25, map[string]float64{"doc1": 1.0}),
	}

	fused := Merge(results, nil, 10)
	if math.Abs(fused.Entries[0].Score-0.3) > 1e-9 {
		t.Errorf("score = %v, want 0.3 under default bm25 weight", fused.Entries[0].Score)
	}
}

func TestMergeDeterministicTieBreak(t *testing.T) {
	results := map[string]RankedResult{
		retrieval.ModelBM25: rankedResult(retrieval.ModelBM25,
			map[string]float64{"doc_b": 0.5, "doc_a": 0.5}),
	}

	for i := 0; i < 10; i++ {
		fused := Merge(results, map[string]float64{retrieval.ModelBM25: 1.0}, 10)
		if fused.Entries[0].Doc.ID != "doc_a" {
			t.Fatalf("tie broke to %s, want doc_a (lexicographic)", fused.Entries[0].Doc.ID)
		}
	}
}
