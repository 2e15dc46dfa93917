package evaluation

import (
	"sort"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// DefaultTargets are the acceptance targets the pipeline is graded against.
func DefaultTargets(precisionK, recallK, ndcgK int) map[string]float64 {
	return map[string]float64{
		MetricKey("precision", precisionK): 0.6,
		MetricKey("recall", recallK):       0.5,
		MetricKey("ndcg", ndcgK):           0.5,
		"mrr":                              0.4,
	}
}

// QueryMetrics holds one query's metric values for one model.
type QueryMetrics struct {
	// Query is the evaluated query string.
	Query string `json:"query"`

	// Metrics maps metric name to value.
	Metrics map[string]float64 `json:"metrics"`

	// NumRelevant is the number of judged-relevant documents.
	NumRelevant int `json:"num_relevant"`

	// NumRetrievedRelevant counts relevant documents within the run depth.
	NumRetrievedRelevant int `json:"num_retrieved_relevant"`
}

// Evaluation is one model's aggregate evaluation result.
type Evaluation struct {
	// Model is the evaluated model name.
	Model string `json:"model"`

	// NumQueries is the number of judged queries that were evaluated.
	NumQueries int `json:"num_queries"`

	// Means maps metric name to the mean over evaluated queries.
	Means map[string]float64 `json:"means"`

	// Targets maps metric name to its acceptance target.
	Targets map[string]float64 `json:"targets"`

	// Meets maps metric name to whether the mean reaches the target.
	Meets map[string]bool `json:"meets"`

	// PerQuery holds the per-query breakdown in judged-query order.
	PerQuery []QueryMetrics `json:"per_query"`
}

// Comparison holds evaluations of several models side by side.
type Comparison struct {
	// Evaluations maps model name to its evaluation.
	Evaluations map[string]Evaluation `json:"evaluations"`

	// BestModel maps metric name to the model with the highest mean.
	BestModel map[string]string `json:"best_model"`
}

// Evaluator scores retrieval runs against the judgment store.
type Evaluator struct {
	store      *Store
	precisionK int
	recallK    int
	ndcgK      int
	depth      int
	targets    map[string]float64
	log        *logger.Logger
}

// NewEvaluator creates an evaluator with the configured cutoffs.
func NewEvaluator(store *Store, cfg config.EvaluationConfig, log *logger.Logger) *Evaluator {
	return &Evaluator{
		store:      store,
		precisionK: cfg.PrecisionK,
		recallK:    cfg.RecallK,
		ndcgK:      cfg.NDCGK,
		depth:      cfg.Depth,
		targets:    DefaultTargets(cfg.PrecisionK, cfg.RecallK, cfg.NDCGK),
		log:        log,
	}
}

// EvaluateModel scores one model's runs. runs maps query to the ranked
// document identifiers that model retrieved, best first, at least depth
// deep. Judged queries missing from runs are skipped with a warning so a
// partial run still produces a report.
func (e *Evaluator) EvaluateModel(model string, runs map[string][]string) Evaluation {
	ev := Evaluation{
		Model:   model,
		Means:   make(map[string]float64),
		Targets: e.targets,
		Meets:   make(map[string]bool),
	}

	sums := make(map[string]float64)

	for _, query := range e.store.Queries() {
		retrieved, ok := runs[query]
		if !ok {
			e.log.Warn("judged query missing from run", "model", model, "query", query)
			continue
		}

		relevant := e.store.Relevant(query)
		metrics := AllMetrics(retrieved, relevant, e.precisionK, e.recallK, e.ndcgK)

		qm := QueryMetrics{
			Query:       query,
			Metrics:     metrics,
			NumRelevant: len(relevant),
		}
		for i := 0; i < e.depth && i < len(retrieved); i++ {
			if relevant[retrieved[i]] {
				qm.NumRetrievedRelevant++
			}
		}

		ev.PerQuery = append(ev.PerQuery, qm)
		ev.NumQueries++

		for name, value := range metrics {
			sums[name] += value
		}
	}

	if ev.NumQueries > 0 {
		for name, sum := range sums {
			ev.Means[name] = sum / float64(ev.NumQueries)
		}
	}

	for name, target := range e.targets {
		ev.Meets[name] = ev.Means[name] >= target
	}

	return ev
}

// EvaluateAll scores every model's runs and picks the best model per
// metric. Models are compared in sorted name order; a later model must
// strictly beat the current best to take a metric.
func (e *Evaluator) EvaluateAll(runs map[string]map[string][]string) Comparison {
	cmp := Comparison{
		Evaluations: make(map[string]Evaluation, len(runs)),
		BestModel:   make(map[string]string),
	}

	models := make([]string, 0, len(runs))
	for model := range runs {
		models = append(models, model)
	}
	sort.Strings(models)

	best := make(map[string]float64)

	for _, model := range models {
		ev := e.EvaluateModel(model, runs[model])
		cmp.Evaluations[model] = ev

		for name, mean := range ev.Means {
			if current, ok := best[name]; !ok || mean > current {
				best[name] = mean
				cmp.BestModel[name] = model
			}
		}
	}

	return cmp
}

// Targets returns the acceptance targets in use.
func (e *Evaluator) Targets() map[string]float64 {
	return e.targets
}
