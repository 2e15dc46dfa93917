// Package pipeline wires the retrieval models, ranking, confidence scoring,
// and event publishing into one service.
package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banglaclir/clir-search/internal/bus"
	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/embed"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
	"github.com/banglaclir/clir-search/internal/ranking"
	"github.com/banglaclir/clir-search/internal/retrieval"
	"github.com/banglaclir/clir-search/internal/vectorindex"
)

const eventSource = "clir-search"

// Service runs queries across all retrieval models over one collection.
type Service struct {
	coll       *corpus.Collection
	retrievers map[string]retrieval.Retriever
	order      []string
	ranker     *ranking.Ranker
	scorer     *ranking.Scorer
	weights    map[string]float64
	topK       int

	provider embed.Provider
	cache    embed.Cache
	index    vectorindex.Index

	eventBus bus.Bus
	log      *logger.Logger
}

// New builds all four retrieval models over the collection. The lexical
// models build concurrently with the semantic model's embedding pass.
// Publishes an index.built event when every model is ready.
func New(ctx context.Context, coll *corpus.Collection, cfg *config.Config, eventBus bus.Bus, log *logger.Logger) (*Service, error) {
	s := &Service{
		coll:       coll,
		retrievers: make(map[string]retrieval.Retriever, 4),
		order: []string{
			retrieval.ModelBM25,
			retrieval.ModelTFIDF,
			retrieval.ModelFuzzy,
			retrieval.ModelSemantic,
		},
		ranker:   ranking.NewRanker(),
		scorer:   ranking.NewScorer(ranking.DefaultConfidenceThreshold),
		weights:  cfg.Retrieval.FusionWeights,
		topK:     cfg.Retrieval.DefaultTopK,
		eventBus: eventBus,
		log:      log,
	}

	provider, err := embed.NewProvider(cfg.Embed, log)
	if err != nil {
		return nil, err
	}
	s.provider = provider

	cache, err := embed.NewCache(cfg.Cache)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.cache = cache

	index, err := vectorindex.New(cfg.VectorIndex, provider.Dimensions())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.index = index

	started := time.Now()

	var mu sync.Mutex
	add := func(r retrieval.Retriever) {
		mu.Lock()
		s.retrievers[r.Name()] = r
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		add(retrieval.NewBM25(coll, cfg.Retrieval.BM25K1, cfg.Retrieval.BM25B))
		return nil
	})
	g.Go(func() error {
		add(retrieval.NewTFIDF(coll))
		return nil
	})
	g.Go(func() error {
		add(retrieval.NewFuzzy(coll))
		return nil
	})
	g.Go(func() error {
		sem, err := retrieval.NewSemantic(gctx, coll, provider, cache, index, cfg.Embed.BodyLimit, log)
		if err != nil {
			return err
		}
		add(sem)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.Close()
		return nil, err
	}

	log.Info("retrieval models built",
		"documents", coll.Len(),
		"models", len(s.retrievers),
		"duration", time.Since(started).String())

	s.publish(ctx, bus.TopicIndexBuilt, map[string]any{
		"documents":   coll.Len(),
		"models":      s.order,
		"fingerprint": coll.Fingerprint(),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return s, nil
}

// Models returns the retrieval model names in fixed order.
func (s *Service) Models() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Query builds the dual-form query for a raw query string.
func (s *Service) Query(raw string) retrieval.Query {
	return retrieval.Query{
		Raw:    raw,
		Tokens: corpus.Tokenize(raw),
	}
}

// SearchAll runs the query through every model and returns the normalized
// ranked result per model. topK of zero or less uses the configured default.
func (s *Service) SearchAll(ctx context.Context, q retrieval.Query, topK int) (map[string]ranking.RankedResult, error) {
	if topK <= 0 {
		topK = s.topK
	}

	started := time.Now()
	results := make(map[string]ranking.RankedResult, len(s.order))

	for _, name := range s.order {
		hits, err := s.retrievers[name].Search(ctx, q, topK)
		if err != nil {
			return nil, err
		}
		results[name] = s.ranker.Rank(name, hits, topK)
	}

	s.publish(ctx, bus.TopicSearchCompleted, map[string]any{
		"query":       q.Raw,
		"top_k":       topK,
		"models":      s.order,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return results, nil
}

// Fuse merges per-model results into the hybrid ranking with the configured
// weights.
func (s *Service) Fuse(results map[string]ranking.RankedResult, topK int) ranking.FusedResult {
	if topK <= 0 {
		topK = s.topK
	}
	return ranking.Merge(results, s.weights, topK)
}

// Confidence assesses the per-model results for one query.
func (s *Service) Confidence(results map[string]ranking.RankedResult) ranking.BatchVerdict {
	return s.scorer.AssessAll(results)
}

// RunQueries retrieves depth documents per query per model and returns the
// runs as ranked document IDs, shaped for the evaluator.
func (s *Service) RunQueries(ctx context.Context, queries []string, depth int) (map[string]map[string][]string, error) {
	runs := make(map[string]map[string][]string, len(s.order))
	for _, name := range s.order {
		runs[name] = make(map[string][]string, len(queries))
	}

	for _, raw := range queries {
		q := s.Query(raw)

		for _, name := range s.order {
			hits, err := s.retrievers[name].Search(ctx, q, depth)
			if err != nil {
				return nil, err
			}

			ids := make([]string, len(hits))
			for i, h := range hits {
				ids[i] = h.Doc.ID
			}
			runs[name][raw] = ids
		}
	}

	return runs, nil
}

// PublishEvaluation announces a finished evaluation run.
func (s *Service) PublishEvaluation(ctx context.Context, payload any) {
	s.publish(ctx, bus.TopicEvaluationCompleted, payload)
}

// Close releases the embedding provider, cache, and vector index. The event
// bus is owned by the caller.
func (s *Service) Close() {
	if s.index != nil {
		if err := s.index.Close(); err != nil {
			s.log.Warn("failed to close vector index", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.log.Warn("failed to close embedding cache", "error", err)
		}
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.log.Warn("failed to close embedding provider", "error", err)
		}
	}
}

// publish sends a lifecycle event, logging instead of failing on error.
func (s *Service) publish(ctx context.Context, topic string, payload any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, topic, bus.NewEvent(topic, eventSource, payload)); err != nil {
		s.log.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
