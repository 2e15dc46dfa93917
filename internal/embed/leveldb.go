package embed

import (
	"context"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

// LevelDBCache persists embeddings on disk so repeated evaluation runs skip
// re-encoding an unchanged corpus.
type LevelDBCache struct {
	db *leveldb.DB
}

// NewLevelDBCache opens or creates a LevelDB-backed embedding cache at path.
func NewLevelDBCache(path string) (*LevelDBCache, error) {
	if path == "" {
		return nil, errors.ValidationError("leveldb cache requires a path")
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.CacheError("failed to open leveldb cache", err)
	}

	return &LevelDBCache{db: db}, nil
}

// Get retrieves a cached embedding.
func (c *LevelDBCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	data, err := c.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.CacheError("leveldb get failed", err)
	}

	return bytesToVector(data), true, nil
}

// Put stores an embedding.
func (c *LevelDBCache) Put(_ context.Context, key string, vector []float32) error {
	if err := c.db.Put([]byte(key), vectorToBytes(vector), nil); err != nil {
		return errors.CacheError("leveldb put failed", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *LevelDBCache) Close() error {
	return c.db.Close()
}
