package retrieval

import (
	"context"
	"reflect"
	"testing"

	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/embed"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
	"github.com/banglaclir/clir-search/internal/vectorindex"
)

func mustCollection(t *testing.T, docs []corpus.Document) *corpus.Collection {
	t.Helper()
	coll, err := corpus.NewCollection(docs)
	if err != nil {
		t.Fatal(err)
	}
	return coll
}

func TestTopIndices(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		k      int
		want   []int
	}{
		{"descending order", []float64{0.1, 0.9, 0.5}, 3, []int{1, 2, 0}},
		{"k smaller than scores", []float64{0.1, 0.9, 0.5}, 1, []int{1}},
		{"k larger than scores", []float64{0.3, 0.7}, 10, []int{1, 0}},
		{"ties prefer later index", []float64{0.5, 0.5, 0.5}, 3, []int{2, 1, 0}},
		{"mixed ties", []float64{0.2, 0.8, 0.2}, 3, []int{1, 2, 0}},
		{"all zero keeps reverse order", []float64{0, 0, 0}, 2, []int{2, 1}},
		{"empty scores", nil, 3, nil},
		{"zero k", []float64{0.1}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topIndices(tt.scores, tt.k)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("topIndices(%v, %d) = %v, want %v", tt.scores, tt.k, got, tt.want)
			}
		})
	}
}

func TestSearchIdempotence(t *testing.T) {
	coll := newsCollection(t)
	q := Query{Raw: "cricket bangladesh", Tokens: []string{"cricket", "bangladesh"}}

	provider := &stubProvider{vectors: map[string][]float32{
		"cricket bangladesh team": {1, 0, 0},
		"education system":        {0, 1, 0},
		"cricket match":           {0.9, 0.1, 0},
		"cricket bangladesh":      {1, 0, 0},
	}}

	semantic, err := NewSemantic(context.Background(), coll, provider,
		embed.NewMemoryCache(100), vectorindex.NewExact(), 500, logger.Default())
	if err != nil {
		t.Fatal(err)
	}

	retrievers := []Retriever{
		NewBM25(coll, 0, 0),
		NewTFIDF(coll),
		NewFuzzy(coll),
		semantic,
	}

	for _, r := range retrievers {
		t.Run(r.Name(), func(t *testing.T) {
			first, err := r.Search(context.Background(), q, 3)
			if err != nil {
				t.Fatal(err)
			}
			second, err := r.Search(context.Background(), q, 3)
			if err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(first, second) {
				t.Errorf("repeated search returned different results:\nfirst:  %v\nsecond: %v", first, second)
			}
		})
	}
}
