// Package embed provides multilingual sentence embedding providers and the
// embedding cache.
package embed

import (
	"context"
	"math"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/hash"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// Provider generates dense embeddings from text. Bangla and English text
// map into a shared vector space so queries in one language can match
// documents in the other.
type Provider interface {
	// Embed generates embeddings for texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimensionality.
	Dimensions() int

	// Model returns the embedding model name.
	Model() string

	// Close releases resources.
	Close() error
}

// NewProvider creates the configured embedding provider. A provider
// construction failure is fatal: a silently missing semantic retriever
// would change the model comparison set.
func NewProvider(cfg config.EmbedConfig, log *logger.Logger) (Provider, error) {
	switch cfg.Provider {
	case "remote":
		return NewRemote(cfg, log)
	case "local":
		return NewLocal(cfg, log)
	default:
		return nil, errors.ValidationError("unknown embed provider: " + cfg.Provider)
	}
}

// Key derives the cache key for the embedding of text under model.
func Key(model, text string) string {
	return hash.EmbeddingKey(model, text)
}

// l2Normalize normalizes a vector to unit length.
func l2Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	norm := float32(math.Sqrt(sum))
	if norm == 0 {
		return v
	}

	result := make([]float32, len(v))
	for i, x := range v {
		result[i] = x / norm
	}

	return result
}
