package evaluation

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/logger"
)

// Judgment is one annotator's relevance label for a query-document pair.
type Judgment struct {
	Query     string
	DocID     string
	DocURL    string
	Language  string
	Relevant  bool
	Annotator string
}

// Store holds human relevance judgments loaded from the annotation CSV.
// Multiple annotators may label the same pair; a document counts as relevant
// for a query when any annotator marked it relevant.
type Store struct {
	// relevant maps query to the set of relevant document identifiers.
	relevant map[string]map[string]bool

	// queryOrder preserves first-seen order of queries with relevant docs.
	queryOrder []string

	log *logger.Logger
}

// LoadJudgments reads the annotation CSV. Expected columns are query,
// doc_id, doc_url, language, relevant, annotator; extra columns are ignored
// and malformed rows are skipped with a warning. Pairs without a doc_id fall
// back to the document URL as identifier.
func LoadJudgments(path string, log *logger.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ConfigurationError("opening judgments file", err)
	}
	defer f.Close()

	s := &Store{
		relevant: make(map[string]map[string]bool),
		log:      log,
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.ConfigurationError("reading judgments header", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"query", "relevant"} {
		if _, ok := col[required]; !ok {
			return nil, errors.ConfigurationError("judgments file missing column: "+required, nil)
		}
	}

	line := 1
	for {
		line++
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping malformed judgment row", "line", line, "error", err)
			continue
		}

		j, ok := parseJudgment(record, col)
		if !ok {
			log.Warn("skipping incomplete judgment row", "line", line)
			continue
		}

		s.add(j)
	}

	log.Info("loaded relevance judgments", "queries", len(s.queryOrder))

	return s, nil
}

// parseJudgment extracts a judgment from a CSV record.
func parseJudgment(record []string, col map[string]int) (Judgment, bool) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	j := Judgment{
		Query:     field("query"),
		DocID:     field("doc_id"),
		DocURL:    field("doc_url"),
		Language:  field("language"),
		Relevant:  strings.EqualFold(field("relevant"), "yes"),
		Annotator: field("annotator"),
	}

	if j.Query == "" || j.Identifier() == "" {
		return Judgment{}, false
	}

	return j, true
}

// Identifier returns the document identifier: the doc_id when present,
// otherwise the URL.
func (j Judgment) Identifier() string {
	if j.DocID != "" {
		return j.DocID
	}
	return j.DocURL
}

// add records a judgment. Only relevant labels are stored; a query first
// appears when its first relevant document does.
func (s *Store) add(j Judgment) {
	if !j.Relevant {
		return
	}

	docs, ok := s.relevant[j.Query]
	if !ok {
		docs = make(map[string]bool)
		s.relevant[j.Query] = docs
		s.queryOrder = append(s.queryOrder, j.Query)
	}

	docs[j.Identifier()] = true
}

// Queries returns the judged queries that have at least one relevant
// document, in first-seen order.
func (s *Store) Queries() []string {
	out := make([]string, len(s.queryOrder))
	copy(out, s.queryOrder)
	return out
}

// Relevant returns the set of relevant document identifiers for a query.
// Callers must not mutate the returned map.
func (s *Store) Relevant(query string) map[string]bool {
	return s.relevant[query]
}

// NumRelevant returns how many documents are relevant for a query.
func (s *Store) NumRelevant(query string) int {
	return len(s.relevant[query])
}
