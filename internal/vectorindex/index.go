// Package vectorindex stores document embeddings and answers nearest
// neighbour queries over them.
package vectorindex

import (
	"context"
	"sort"
	"sync"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

// Entry is a single similarity search result.
type Entry struct {
	// ID is the document identifier.
	ID string

	// Score is the cosine similarity to the query vector.
	Score float32
}

// Index answers nearest neighbour queries over document embeddings.
type Index interface {
	// Upsert inserts or replaces document vectors. ids and vectors are
	// parallel slices.
	Upsert(ctx context.Context, ids []string, vectors [][]float32) error

	// Search returns the limit nearest documents to vector, best first.
	Search(ctx context.Context, vector []float32, limit int) ([]Entry, error)

	// Close releases resources.
	Close() error
}

// New creates the configured index backend.
func New(cfg config.VectorIndexConfig, dimensions int) (Index, error) {
	switch cfg.Type {
	case "exact":
		return NewExact(), nil
	case "qdrant":
		return NewQdrant(cfg, dimensions)
	default:
		return nil, errors.ValidationError("unknown vector index type: " + cfg.Type)
	}
}

// Exact is an in-memory index that scores every stored vector against the
// query. Small evaluation corpora do not need approximate search, and exact
// scoring keeps ranking deterministic.
type Exact struct {
	mu      sync.RWMutex
	ids     []string
	vectors [][]float32
	pos     map[string]int
}

// NewExact creates an empty exact index.
func NewExact() *Exact {
	return &Exact{pos: make(map[string]int)}
}

// Upsert inserts or replaces document vectors.
func (e *Exact) Upsert(_ context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.ValidationError("ids and vectors length mismatch")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i, id := range ids {
		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])

		if at, ok := e.pos[id]; ok {
			e.vectors[at] = vec
			continue
		}

		e.pos[id] = len(e.ids)
		e.ids = append(e.ids, id)
		e.vectors = append(e.vectors, vec)
	}

	return nil
}

// Search returns the limit nearest documents by cosine similarity. Vectors
// are stored normalized, so the dot product is the cosine. Ties keep the
// later insertion first, matching the ordering used by the lexical models.
func (e *Exact) Search(_ context.Context, vector []float32, limit int) ([]Entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if limit <= 0 || len(e.ids) == 0 {
		return nil, nil
	}

	scores := make([]float32, len(e.ids))
	for i, v := range e.vectors {
		scores[i] = dot(vector, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	if limit > len(order) {
		limit = len(order)
	}

	entries := make([]Entry, 0, limit)
	for i := len(order) - 1; i >= len(order)-limit; i-- {
		idx := order[i]
		entries = append(entries, Entry{ID: e.ids[idx], Score: scores[idx]})
	}

	return entries, nil
}

// Close releases resources.
func (e *Exact) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = nil
	e.vectors = nil
	e.pos = nil
	return nil
}

// dot computes the dot product of two vectors. Shorter length wins when the
// vectors disagree.
func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
