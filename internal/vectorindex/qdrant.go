package vectorindex

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/banglaclir/clir-search/internal/config"
	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

const (
	// qdrantTimeout bounds every Qdrant operation.
	qdrantTimeout = 30 * time.Second

	// upsertBatchSize limits the number of points per upsert request.
	upsertBatchSize = 100
)

// Qdrant stores document embeddings in a Qdrant collection. Point IDs are
// deterministic UUIDs derived from the document ID, so re-indexing the same
// corpus overwrites rather than duplicates.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	dimensions int
}

// NewQdrant connects to Qdrant and ensures the collection exists.
func NewQdrant(cfg config.VectorIndexConfig, dimensions int) (*Qdrant, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
		UseTLS: cfg.QdrantUseTLS,
	})
	if err != nil {
		return nil, errors.VectorIndexError("failed to create qdrant client", err)
	}

	q := &Qdrant{
		client:     client,
		collection: cfg.Collection,
		dimensions: dimensions,
	}

	ctx, cancel := context.WithTimeout(context.Background(), qdrantTimeout)
	defer cancel()

	if err := q.ensureCollection(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return q, nil
}

// ensureCollection creates the collection when it does not exist yet.
func (q *Qdrant) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return errors.VectorIndexError("failed to check collection existence", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return errors.VectorIndexError("failed to create collection", err)
	}

	return nil
}

// Upsert inserts or replaces document vectors in batches.
func (q *Qdrant) Upsert(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return errors.ValidationError("ids and vectors length mismatch")
	}

	for start := 0; start < len(ids); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		points := make([]*qdrant.PointStruct, 0, end-start)
		for i := start; i < end; i++ {
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(pointID(ids[i])),
				Vectors: qdrant.NewVectors(vectors[i]...),
				Payload: qdrant.NewValueMap(map[string]any{
					"doc_id": ids[i],
				}),
			})
		}

		opCtx, cancel := context.WithTimeout(ctx, qdrantTimeout)
		_, err := q.client.Upsert(opCtx, &qdrant.UpsertPoints{
			CollectionName: q.collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		cancel()
		if err != nil {
			return errors.VectorIndexError("failed to upsert points", err)
		}
	}

	return nil
}

// Search returns the limit nearest documents to vector.
func (q *Qdrant) Search(ctx context.Context, vector []float32, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, qdrantTimeout)
	defer cancel()

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errors.VectorIndexError("vector search failed", err)
	}

	entries := make([]Entry, 0, len(points))
	for _, p := range points {
		id := docID(p.Payload)
		if id == "" {
			continue
		}
		entries = append(entries, Entry{ID: id, Score: p.Score})
	}

	return entries, nil
}

// Close closes the client connection.
func (q *Qdrant) Close() error {
	return q.client.Close()
}

// pointID derives a stable UUID for a document ID.
func pointID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
}

// docID extracts the document ID from a point payload.
func docID(payload map[string]*qdrant.Value) string {
	if v, ok := payload["doc_id"]; ok {
		if sv, ok := v.Kind.(*qdrant.Value_StringValue); ok {
			return sv.StringValue
		}
	}
	return ""
}
