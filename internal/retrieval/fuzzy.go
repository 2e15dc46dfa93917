package retrieval

import (
	"context"
	"strings"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/banglaclir/clir-search/internal/corpus"
)

// Fuzzy is an approximate string matching retriever. It scores the raw
// query against lowercase title+body text with partial ratio, which finds
// the best matching substring window. Useful for transliterated names and
// spelling variants that tokenized models miss.
type Fuzzy struct {
	coll *corpus.Collection

	// texts[i] is the precomputed lowercase match text of document i.
	texts []string
}

// NewFuzzy builds the fuzzy retriever over a collection.
func NewFuzzy(coll *corpus.Collection) *Fuzzy {
	texts := make([]string, coll.Len())
	for i, doc := range coll.Docs() {
		texts[i] = doc.MatchText()
	}

	return &Fuzzy{coll: coll, texts: texts}
}

// Name returns the model name.
func (m *Fuzzy) Name() string { return ModelFuzzy }

// Input declares that fuzzy matching consumes the raw query string.
func (m *Fuzzy) Input() QueryInput { return QueryRaw }

// Search scores every document with partial ratio and returns the topK
// best. Raw scores are on the library's 0 to 100 scale.
func (m *Fuzzy) Search(ctx context.Context, q Query, topK int) ([]Hit, error) {
	query := strings.ToLower(strings.TrimSpace(q.Raw))

	scores := make([]float64, m.coll.Len())
	if query != "" {
		for i, text := range m.texts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if text == "" {
				continue
			}
			scores[i] = float64(fuzzywuzzy.PartialRatio(query, text))
		}
	}

	hits := make([]Hit, 0, topK)
	for _, i := range topIndices(scores, topK) {
		hits = append(hits, Hit{Doc: m.coll.Doc(i), RawScore: scores[i]})
	}

	return hits, nil
}
