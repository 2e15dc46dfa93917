// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Embedding provider configuration
	Embed EmbedConfig `yaml:"embed"`

	// Embedding cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Vector index configuration
	VectorIndex VectorIndexConfig `yaml:"vector_index"`

	// Retrieval configuration
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Evaluation configuration
	Evaluation EvaluationConfig `yaml:"evaluation"`

	// Bus configuration
	Bus BusConfig `yaml:"bus"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// EmbedConfig holds sentence embedding settings.
type EmbedConfig struct {
	Provider          string `envconfig:"CLIR_EMBED_PROVIDER" yaml:"provider"`
	Model             string `envconfig:"CLIR_EMBED_MODEL" yaml:"model"`
	Dimensions        int    `envconfig:"CLIR_EMBED_DIM" yaml:"dimensions"`
	BatchSize         int    `envconfig:"CLIR_EMBED_BATCH_SIZE" yaml:"batch_size"`
	Device            string `envconfig:"CLIR_EMBED_DEVICE" yaml:"device"`
	BodyLimit         int    `envconfig:"CLIR_EMBED_BODY_LIMIT" yaml:"body_limit"`
	RemoteURL         string `envconfig:"CLIR_EMBED_REMOTE_URL" yaml:"remote_url"`
	RemoteAPIKey      string `envconfig:"CLIR_EMBED_REMOTE_API_KEY" yaml:"remote_api_key"`
	RequestsPerMinute int    `envconfig:"CLIR_EMBED_RPM" yaml:"requests_per_minute"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	Type     string `envconfig:"CLIR_CACHE_TYPE" yaml:"type"`
	Size     int    `envconfig:"CLIR_CACHE_SIZE" yaml:"size"`
	Path     string `envconfig:"CLIR_CACHE_PATH" yaml:"path"`
	RedisURL string `envconfig:"CLIR_REDIS_URL" yaml:"redis_url"`
	TTL      int    `envconfig:"CLIR_CACHE_TTL" yaml:"ttl"` // seconds, 0 = no expiry
}

// VectorIndexConfig holds vector index settings.
type VectorIndexConfig struct {
	Type         string `envconfig:"CLIR_VECTOR_INDEX" yaml:"type"`
	QdrantHost   string `envconfig:"CLIR_QDRANT_HOST" yaml:"qdrant_host"`
	QdrantPort   int    `envconfig:"CLIR_QDRANT_PORT" yaml:"qdrant_port"`
	QdrantAPIKey string `envconfig:"CLIR_QDRANT_API_KEY" yaml:"qdrant_api_key"`
	QdrantUseTLS bool   `envconfig:"CLIR_QDRANT_USE_TLS" yaml:"qdrant_use_tls"`
	Collection   string `envconfig:"CLIR_QDRANT_COLLECTION" yaml:"collection"`
}

// RetrievalConfig holds retrieval settings.
type RetrievalConfig struct {
	DefaultTopK int     `envconfig:"CLIR_DEFAULT_TOP_K" yaml:"default_top_k"`
	BM25K1      float64 `envconfig:"CLIR_BM25_K1" yaml:"bm25_k1"`
	BM25B       float64 `envconfig:"CLIR_BM25_B" yaml:"bm25_b"`

	// FusionWeights are per-model weights for hybrid ranking.
	FusionWeights map[string]float64 `envconfig:"CLIR_FUSION_WEIGHTS" yaml:"fusion_weights"`
}

// EvaluationConfig holds evaluation settings.
type EvaluationConfig struct {
	JudgmentsFile string `envconfig:"CLIR_JUDGMENTS_FILE" yaml:"judgments_file"`
	PrecisionK    int    `envconfig:"CLIR_PRECISION_K" yaml:"precision_k"`
	RecallK       int    `envconfig:"CLIR_RECALL_K" yaml:"recall_k"`
	NDCGK         int    `envconfig:"CLIR_NDCG_K" yaml:"ndcg_k"`

	// Depth is how many documents to retrieve per judged query. It must be
	// at least RecallK or Recall@K is capped by the run depth.
	Depth int `envconfig:"CLIR_EVAL_DEPTH" yaml:"depth"`
}

// BusConfig holds event bus settings.
type BusConfig struct {
	Type          string `envconfig:"CLIR_BUS_TYPE" yaml:"type"`
	KafkaBrokers  string `envconfig:"CLIR_KAFKA_BROKERS" yaml:"kafka_brokers"`
	ConsumerGroup string `envconfig:"CLIR_KAFKA_GROUP" yaml:"consumer_group"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"CLIR_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"CLIR_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Embed = EmbedConfig{
		Provider:          "local",
		Model:             "sentence-transformers/LaBSE",
		Dimensions:        768,
		BatchSize:         64,
		Device:            "cpu",
		BodyLimit:         500,
		RequestsPerMinute: 300,
	}

	cfg.Cache = CacheConfig{
		Type:     "memory",
		Size:     10000,
		Path:     "./embeddings-cache",
		RedisURL: "redis://localhost:6379",
		TTL:      0,
	}

	cfg.VectorIndex = VectorIndexConfig{
		Type:       "exact",
		QdrantHost: "localhost",
		QdrantPort: 6334,
		Collection: "clir_documents",
	}

	cfg.Retrieval = RetrievalConfig{
		DefaultTopK: 10,
		BM25K1:      1.5,
		BM25B:       0.75,
		FusionWeights: map[string]float64{
			"bm25":     0.3,
			"tfidf":    0.2,
			"fuzzy":    0.2,
			"semantic": 0.3,
		},
	}

	cfg.Evaluation = EvaluationConfig{
		JudgmentsFile: "data/evaluation/labeled_queries.csv",
		PrecisionK:    10,
		RecallK:       50,
		NDCGK:         10,
		Depth:         50,
	}

	cfg.Bus = BusConfig{
		Type:          "memory",
		ConsumerGroup: "clir-search",
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	validProviders := map[string]bool{"local": true, "remote": true}
	if !validProviders[c.Embed.Provider] {
		errs = append(errs, fmt.Sprintf("invalid embed provider: %s (must be local or remote)", c.Embed.Provider))
	}

	validDevices := map[string]bool{"cpu": true, "cuda": true}
	if !validDevices[c.Embed.Device] {
		errs = append(errs, fmt.Sprintf("invalid embed device: %s (must be cpu or cuda)", c.Embed.Device))
	}

	if c.Embed.Dimensions < 1 {
		errs = append(errs, "embed dimensions must be positive")
	}

	if c.Embed.BatchSize < 1 {
		errs = append(errs, "embed batch_size must be positive")
	}

	if c.Embed.Provider == "remote" && c.Embed.RemoteURL == "" {
		errs = append(errs, "remote embed provider requires remote_url")
	}

	validCacheTypes := map[string]bool{"memory": true, "leveldb": true, "redis": true}
	if !validCacheTypes[c.Cache.Type] {
		errs = append(errs, fmt.Sprintf("invalid cache type: %s (must be memory, leveldb, or redis)", c.Cache.Type))
	}

	validIndexTypes := map[string]bool{"exact": true, "qdrant": true}
	if !validIndexTypes[c.VectorIndex.Type] {
		errs = append(errs, fmt.Sprintf("invalid vector index type: %s (must be exact or qdrant)", c.VectorIndex.Type))
	}

	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}

	if c.Retrieval.DefaultTopK < 1 {
		errs = append(errs, "default_top_k must be positive")
	}

	if c.Retrieval.BM25K1 <= 0 {
		errs = append(errs, "bm25_k1 must be positive")
	}

	if c.Retrieval.BM25B < 0 || c.Retrieval.BM25B > 1 {
		errs = append(errs, "bm25_b must be between 0 and 1")
	}

	for model, w := range c.Retrieval.FusionWeights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("fusion weight for %s must be non-negative", model))
		}
	}

	if c.Evaluation.PrecisionK < 1 || c.Evaluation.RecallK < 1 || c.Evaluation.NDCGK < 1 {
		errs = append(errs, "evaluation cutoffs must be positive")
	}

	if c.Evaluation.Depth < c.Evaluation.RecallK {
		errs = append(errs, "evaluation depth must be at least recall_k")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
