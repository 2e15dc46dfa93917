package retrieval

import (
	"context"

	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/embed"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
	"github.com/banglaclir/clir-search/internal/vectorindex"
)

// Semantic is a dense embedding retriever. Documents and queries are
// embedded into a shared multilingual vector space, so a Bangla query can
// match English documents and vice versa without translation.
type Semantic struct {
	coll     *corpus.Collection
	provider embed.Provider
	index    vectorindex.Index
	log      *logger.Logger
}

// NewSemantic embeds the collection and fills the vector index. Embeddings
// are looked up in the cache by content hash first, so unchanged documents
// are never re-encoded and edited documents never reuse a stale vector.
func NewSemantic(ctx context.Context, coll *corpus.Collection, provider embed.Provider, cache embed.Cache, index vectorindex.Index, bodyLimit int, log *logger.Logger) (*Semantic, error) {
	m := &Semantic{
		coll:     coll,
		provider: provider,
		index:    index,
		log:      log,
	}

	n := coll.Len()
	ids := make([]string, n)
	vectors := make([][]float32, n)
	keys := make([]string, n)

	var missing []int
	var missingTexts []string

	for i, doc := range coll.Docs() {
		text := doc.EmbedText(bodyLimit)
		keys[i] = embed.Key(provider.Model(), text)
		ids[i] = doc.ID

		vec, ok, err := cache.Get(ctx, keys[i])
		if err != nil {
			return nil, err
		}
		if ok {
			vectors[i] = vec
			continue
		}

		missing = append(missing, i)
		missingTexts = append(missingTexts, text)
	}

	if len(missing) > 0 {
		log.Info("embedding documents", "total", n, "cached", n-len(missing), "to_encode", len(missing))

		encoded, err := provider.Embed(ctx, missingTexts)
		if err != nil {
			return nil, err
		}
		if len(encoded) != len(missing) {
			return nil, errors.EmbeddingError("embedding count mismatch", nil)
		}

		for j, i := range missing {
			vectors[i] = encoded[j]
			if err := cache.Put(ctx, keys[i], encoded[j]); err != nil {
				log.Warn("failed to cache embedding", "doc_id", ids[i], "error", err)
			}
		}
	}

	if n > 0 {
		if err := index.Upsert(ctx, ids, vectors); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Name returns the model name.
func (m *Semantic) Name() string { return ModelSemantic }

// Input declares that semantic search consumes the raw query string.
func (m *Semantic) Input() QueryInput { return QueryRaw }

// Search embeds the raw query and returns the topK nearest documents. Raw
// scores are cosine similarities in [-1, 1].
func (m *Semantic) Search(ctx context.Context, q Query, topK int) ([]Hit, error) {
	if m.coll.Len() == 0 || topK <= 0 {
		return nil, nil
	}

	vecs, err := m.provider.Embed(ctx, []string{q.Raw})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, errors.EmbeddingError("query embedding count mismatch", nil)
	}

	entries, err := m.index.Search(ctx, vecs[0], topK)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(entries))
	for _, e := range entries {
		doc, ok := m.coll.ByID(e.ID)
		if !ok {
			m.log.Warn("vector index returned unknown document", "doc_id", e.ID)
			continue
		}
		hits = append(hits, Hit{Doc: doc, RawScore: float64(e.Score)})
	}

	return hits, nil
}
