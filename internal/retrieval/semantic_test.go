package retrieval

import (
	"context"
	"testing"

	"github.com/banglaclir/clir-search/internal/corpus"
	"github.com/banglaclir/clir-search/internal/embed"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
	"github.com/banglaclir/clir-search/internal/vectorindex"
)

// stubProvider returns fixed unit vectors per text and counts encode calls.
type stubProvider struct {
	vectors map[string][]float32
	calls   int
}

func (p *stubProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	p.calls += len(texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := p.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func (p *stubProvider) Dimensions() int { return 3 }
func (p *stubProvider) Model() string   { return "stub-model" }
func (p *stubProvider) Close() error    { return nil }

func semanticFixture(t *testing.T) (*Semantic, *stubProvider, embed.Cache, *corpus.Collection) {
	t.Helper()

	coll := mustCollection(t, []corpus.Document{
		{ID: "doc1", Title: "cricket", Tokens: []string{"cricket"}},
		{ID: "doc2", Title: "economy", Tokens: []string{"economy"}},
	})

	provider := &stubProvider{vectors: map[string][]float32{
		"cricket": {1, 0, 0},
		"economy": {0, 1, 0},
	}}
	cache := embed.NewMemoryCache(100)

	m, err := NewSemantic(context.Background(), coll, provider, cache, vectorindex.NewExact(), 500, logger.Default())
	if err != nil {
		t.Fatal(err)
	}

	return m, provider, cache, coll
}

func TestSemanticSearch(t *testing.T) {
	m, provider, _, _ := semanticFixture(t)
	provider.vectors["cricket news"] = []float32{1, 0, 0}

	hits, err := m.Search(context.Background(), Query{Raw: "cricket news"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if hits[0].Doc.ID != "doc1" {
		t.Errorf("top doc = %s, want doc1", hits[0].Doc.ID)
	}
	if hits[0].RawScore < 0.99 {
		t.Errorf("top cosine = %v, want approx 1.0", hits[0].RawScore)
	}
	if hits[1].RawScore > 0.01 {
		t.Errorf("orthogonal doc cosine = %v, want approx 0", hits[1].RawScore)
	}
}

func TestSemanticCacheSkipsReencoding(t *testing.T) {
	_, provider, cache, coll := semanticFixture(t)

	encodedOnce := provider.calls

	// Rebuilding over the same cache must not re-encode any document.
	_, err := NewSemantic(context.Background(), coll, provider, cache, vectorindex.NewExact(), 500, logger.Default())
	if err != nil {
		t.Fatal(err)
	}

	if provider.calls != encodedOnce {
		t.Errorf("rebuild encoded %d texts, want 0", provider.calls-encodedOnce)
	}
}

func TestSemanticContentHashInvalidatesChangedDoc(t *testing.T) {
	_, provider, cache, _ := semanticFixture(t)

	before := provider.calls

	// Same IDs, but doc1's text changed. Its old cached vector must not
	// be reused.
	changed := mustCollection(t, []corpus.Document{
		{ID: "doc1", Title: "cricket update", Tokens: []string{"cricket"}},
		{ID: "doc2", Title: "economy", Tokens: []string{"economy"}},
	})

	_, err := NewSemantic(context.Background(), changed, provider, cache, vectorindex.NewExact(), 500, logger.Default())
	if err != nil {
		t.Fatal(err)
	}

	if provider.calls != before+1 {
		t.Errorf("changed doc triggered %d encodes, want exactly 1", provider.calls-before)
	}
}

func TestSemanticEmptyCollection(t *testing.T) {
	coll := mustCollection(t, nil)
	provider := &stubProvider{vectors: map[string][]float32{}}

	m, err := NewSemantic(context.Background(), coll, provider, embed.NewMemoryCache(10), vectorindex.NewExact(), 500, logger.Default())
	if err != nil {
		t.Fatal(err)
	}

	hits, err := m.Search(context.Background(), Query{Raw: "anything"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0", len(hits))
	}
}
