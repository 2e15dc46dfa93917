package embed

import (
	"context"

	"github.com/soundprediction/go-embedeverything/pkg/embedder"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// Local runs the embedding model in-process.
type Local struct {
	client *embedder.Embedder
	cfg    config.EmbedConfig
	log    *logger.Logger
}

// NewLocal loads the embedding model. GPU use is a capability of the
// underlying runtime; when no accelerator is present encoding falls back to
// the CPU without affecting results.
func NewLocal(cfg config.EmbedConfig, log *logger.Logger) (*Local, error) {
	if cfg.Device == "cuda" {
		log.Info("requesting accelerated embedding; falling back to CPU if unavailable", "model", cfg.Model)
	} else {
		log.Info("loading embedding model on CPU", "model", cfg.Model)
	}

	client, err := embedder.NewEmbedder(cfg.Model)
	if err != nil {
		return nil, errors.EmbeddingError("failed to load embedding model", err)
	}

	return &Local{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Embed generates embeddings for texts in configured batch sizes.
func (l *Local) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := l.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	all := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		// The embedder does not take a context; batching keeps
		// cancellation checks reasonably frequent.
		vectors, err := l.client.Embed(texts[i:end])
		if err != nil {
			return nil, errors.EmbeddingError("failed to generate embeddings", err)
		}

		for _, v := range vectors {
			all = append(all, l2Normalize(v))
		}
	}

	return all, nil
}

// Dimensions returns the embedding dimensionality.
func (l *Local) Dimensions() int {
	return l.cfg.Dimensions
}

// Model returns the embedding model name.
func (l *Local) Model() string {
	return l.cfg.Model
}

// Close releases model resources.
func (l *Local) Close() error {
	l.client.Close()
	return nil
}
