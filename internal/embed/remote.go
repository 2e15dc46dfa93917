package embed

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// Remote generates embeddings through an OpenAI-compatible embeddings
// endpoint. Requests are rate limited to stay inside the provider's quota.
type Remote struct {
	client  *openai.Client
	limiter *rate.Limiter
	cfg     config.EmbedConfig
	log     *logger.Logger
}

// NewRemote creates a remote embedding provider.
func NewRemote(cfg config.EmbedConfig, log *logger.Logger) (*Remote, error) {
	if cfg.RemoteURL == "" {
		return nil, errors.ValidationError("remote embed provider requires a base URL")
	}

	clientCfg := openai.DefaultConfig(cfg.RemoteAPIKey)
	clientCfg.BaseURL = cfg.RemoteURL

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 300
	}

	log.Info("using remote embedding provider", "url", cfg.RemoteURL, "model", cfg.Model, "rpm", rpm)

	return &Remote{
		client:  openai.NewClientWithConfig(clientCfg),
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		cfg:     cfg,
		log:     log,
	}, nil
}

// Embed generates embeddings for texts in configured batch sizes.
func (r *Remote) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchSize := r.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	all := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, errors.EmbeddingError("rate limit wait interrupted", err)
		}

		resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts[i:end],
			Model: openai.EmbeddingModel(r.cfg.Model),
		})
		if err != nil {
			return nil, errors.EmbeddingError("embedding request failed", err)
		}

		if len(resp.Data) != end-i {
			return nil, errors.EmbeddingError("embedding response size mismatch", nil)
		}

		for _, d := range resp.Data {
			all = append(all, l2Normalize(d.Embedding))
		}
	}

	return all, nil
}

// Dimensions returns the embedding dimensionality.
func (r *Remote) Dimensions() int {
	return r.cfg.Dimensions
}

// Model returns the embedding model name.
func (r *Remote) Model() string {
	return r.cfg.Model
}

// Close releases resources.
func (r *Remote) Close() error {
	return nil
}
