package retrieval

import (
	"context"
	"testing"

	"github.com/banglaclir/clir-search/internal/corpus"
)

func TestFuzzyExactSubstring(t *testing.T) {
	coll := mustCollection(t, []corpus.Document{
		{ID: "doc1", Title: "Bangladesh wins cricket series", Body: "The national team won.", Tokens: []string{"bangladesh", "cricket"}},
		{ID: "doc2", Title: "Education reform announced", Body: "New curriculum this year.", Tokens: []string{"education", "reform"}},
	})
	m := NewFuzzy(coll)

	hits, err := m.Search(context.Background(), Query{Raw: "cricket series"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	// "cricket series" is an exact substring of doc1's lowercase text.
	if hits[0].Doc.ID != "doc1" {
		t.Errorf("top doc = %s, want doc1", hits[0].Doc.ID)
	}
	if hits[0].RawScore != 100 {
		t.Errorf("score = %v, want 100 for exact substring", hits[0].RawScore)
	}
}

func TestFuzzyCaseInsensitive(t *testing.T) {
	coll := mustCollection(t, []corpus.Document{
		{ID: "doc1", Title: "CRICKET NEWS", Tokens: []string{"cricket"}},
	})
	m := NewFuzzy(coll)

	hits, err := m.Search(context.Background(), Query{Raw: "Cricket News"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].RawScore != 100 {
		t.Errorf("score = %v, want 100 regardless of case", hits[0].RawScore)
	}
}

func TestFuzzyEmptyQuery(t *testing.T) {
	m := NewFuzzy(newsCollection(t))

	hits, err := m.Search(context.Background(), Query{Raw: "   "}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range hits {
		if h.RawScore != 0 {
			t.Errorf("score = %v, want 0 for blank query", h.RawScore)
		}
	}
}

func TestFuzzyScoreRange(t *testing.T) {
	m := NewFuzzy(newsCollection(t))

	hits, err := m.Search(context.Background(), Query{Raw: "criket bangldesh"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range hits {
		if h.RawScore < 0 || h.RawScore > 100 {
			t.Errorf("score %v out of [0,100]", h.RawScore)
		}
	}
}
