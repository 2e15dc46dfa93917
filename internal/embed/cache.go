package embed

import (
	"context"
	"encoding/binary"
	"math"
	"sync"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

// Cache stores computed embeddings keyed by content hash. Because keys are
// content-addressed (see Key), a changed document or model never reads a
// stale vector; unchanged documents skip re-encoding across runs.
type Cache interface {
	// Get retrieves a cached embedding.
	Get(ctx context.Context, key string) ([]float32, bool, error)

	// Put stores an embedding.
	Put(ctx context.Context, key string, vector []float32) error

	// Close releases resources.
	Close() error
}

// NewCache creates the configured cache backend.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryCache(cfg.Size), nil
	case "leveldb":
		return NewLevelDBCache(cfg.Path)
	case "redis":
		return NewRedisCache(cfg)
	default:
		return nil, errors.ValidationError("unknown cache type: " + cfg.Type)
	}
}

// MemoryCache is an in-memory LRU embedding cache.
type MemoryCache struct {
	mu      sync.RWMutex
	cache   map[string][]float32
	maxSize int
	order   []string // LRU order
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 10000
	}

	return &MemoryCache{
		cache:   make(map[string][]float32),
		maxSize: maxSize,
		order:   make([]string, 0, maxSize),
	}
}

// Get retrieves an embedding from cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vec, ok := c.cache[key]
	if !ok {
		return nil, false, nil
	}

	c.moveToEnd(key)

	// Return a copy to prevent external mutation
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true, nil
}

// Put stores an embedding in cache.
func (c *MemoryCache) Put(_ context.Context, key string, vector []float32) error {
	vec := make([]float32, len(vector))
	copy(vec, vector)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; exists {
		c.cache[key] = vec
		c.moveToEnd(key)
		return nil
	}

	// Evict oldest entries at capacity
	for len(c.cache) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
	}

	c.cache[key] = vec
	c.order = append(c.order, key)
	return nil
}

// moveToEnd moves a key to the end of the LRU order (must hold lock).
func (c *MemoryCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

// Size returns the current cache size.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Close releases resources.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = nil
	c.order = nil
	return nil
}

// vectorToBytes encodes a float32 vector as little-endian bytes.
func vectorToBytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

// bytesToVector decodes a little-endian byte slice into a float32 vector.
func bytesToVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
