package ranking

import (
	"fmt"
	"sort"

	"github.com/banglaclir/clir-search/internal/retrieval"
)

// DefaultConfidenceThreshold is the normalized top score below which a
// result set is flagged as low confidence.
const DefaultConfidenceThreshold = 0.20

// Confidence tiers.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// recommendations suggest a follow-up action when a model returns a weak
// top result.
var recommendations = map[string]string{
	retrieval.ModelBM25:     "no strong keyword match; try more specific or additional query terms",
	retrieval.ModelTFIDF:    "low term overlap with the corpus; reformulate with corpus vocabulary",
	retrieval.ModelFuzzy:    "no close string match; check spelling and transliteration variants",
	retrieval.ModelSemantic: "weak semantic match; rephrase the query as a fuller sentence",
	retrieval.ModelHybrid:   "all models scored low; the corpus may not cover this topic",
}

const defaultRecommendation = "low relevance signal; consider reformulating the query"

// Verdict is the confidence assessment of one model's result set.
type Verdict struct {
	// Model is the assessed model.
	Model string `json:"model"`

	// TopScore is the normalized score of the best result, 0 when empty.
	TopScore float64 `json:"top_score"`

	// Confident is false when the top score falls below the threshold.
	Confident bool `json:"confident"`

	// Tier buckets the top score into low, medium, or high.
	Tier string `json:"tier"`

	// Warning is a human-readable message set when Confident is false.
	Warning string `json:"warning,omitempty"`

	// Recommendation suggests a follow-up when Confident is false.
	Recommendation string `json:"recommendation,omitempty"`
}

// BatchVerdict summarizes confidence across all models for one query.
type BatchVerdict struct {
	// Verdicts holds the per-model assessments.
	Verdicts map[string]Verdict `json:"verdicts"`

	// BestModel is the model with the highest top score. Empty when every
	// model scored zero.
	BestModel string `json:"best_model,omitempty"`

	// BestScore is the highest top score across models.
	BestScore float64 `json:"best_score"`

	// Tier buckets BestScore into low, medium, or high.
	Tier string `json:"tier"`

	// AnyConfident is true when at least one model cleared the threshold.
	AnyConfident bool `json:"any_confident"`
}

// Scorer flags result sets whose best normalized score is too low to trust.
type Scorer struct {
	// Threshold is the minimum top score considered confident. A top
	// score exactly at the threshold is confident.
	Threshold float64
}

// NewScorer creates a Scorer. A zero or negative threshold falls back to
// the default.
func NewScorer(threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Scorer{Threshold: threshold}
}

// Assess evaluates one model's ranked result.
func (s *Scorer) Assess(result RankedResult) Verdict {
	var top float64
	if len(result.Entries) > 0 {
		top = result.Entries[0].Score
	}

	v := Verdict{
		Model:     result.Model,
		TopScore:  top,
		Confident: top >= s.Threshold,
		Tier:      s.tier(top),
	}

	if !v.Confident {
		v.Warning = fmt.Sprintf("retrieved results may not be relevant: top score %.2f is below the %.2f confidence threshold", top, s.Threshold)
		rec, ok := recommendations[result.Model]
		if !ok {
			rec = defaultRecommendation
		}
		v.Recommendation = rec
	}

	return v
}

// AssessAll evaluates every model's result for one query and picks the
// strongest model.
func (s *Scorer) AssessAll(results map[string]RankedResult) BatchVerdict {
	batch := BatchVerdict{
		Verdicts: make(map[string]Verdict, len(results)),
	}

	models := make([]string, 0, len(results))
	for model := range results {
		models = append(models, model)
	}
	sort.Strings(models)

	best := 0.0
	for _, model := range models {
		v := s.Assess(results[model])
		batch.Verdicts[model] = v

		if v.Confident {
			batch.AnyConfident = true
		}
		if v.TopScore > best {
			best = v.TopScore
			batch.BestModel = model
		}
	}

	batch.BestScore = best
	batch.Tier = s.tier(best)

	return batch
}

// tier buckets a normalized top score.
func (s *Scorer) tier(top float64) string {
	switch {
	case top < s.Threshold:
		return TierLow
	case top < 0.5:
		return TierMedium
	default:
		return TierHigh
	}
}
