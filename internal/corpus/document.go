// Package corpus holds the in-memory document collection shared by all
// retrieval models.
package corpus

import (
	"fmt"
	"strings"

	"github.com/banglaclir/clir-search/internal/pkg/errors"
	"github.com/banglaclir/clir-search/internal/pkg/hash"
)

// fallbackToken is substituted for documents that arrive with no tokens so
// every indexed document has a non-empty token sequence.
const fallbackToken = "unk"

// Document is a single news article. Documents are immutable after the
// collection is built.
type Document struct {
	// ID uniquely identifies the document within a collection and is
	// stable across runs.
	ID string `json:"doc_id"`

	// Title is the article headline.
	Title string `json:"title"`

	// Body is the article text.
	Body string `json:"body"`

	// Language is the language tag ("bn", "en", ...).
	Language string `json:"language"`

	// Tokens is the pre-computed, normalized token sequence produced by
	// the preprocessing step. Never empty for an indexed document.
	Tokens []string `json:"tokens"`
}

// EmbedText returns the text used for dense embedding: the title followed
// by the first bodyLimit runes of the body.
func (d Document) EmbedText(bodyLimit int) string {
	body := d.Body
	if bodyLimit > 0 {
		runes := []rune(body)
		if len(runes) > bodyLimit {
			body = string(runes[:bodyLimit])
		}
	}
	return strings.TrimSpace(d.Title + " " + body)
}

// MatchText returns the lowercase title+body string used for approximate
// string matching.
func (d Document) MatchText() string {
	return strings.ToLower(strings.TrimSpace(d.Title + " " + d.Body))
}

// Collection is an ordered, immutable list of documents.
type Collection struct {
	docs []Document
	byID map[string]int
}

// NewCollection validates documents and builds a collection. Document IDs
// must be unique and non-empty. Documents without tokens get a trivial
// single-token fallback so every document is indexable.
func NewCollection(docs []Document) (*Collection, error) {
	c := &Collection{
		docs: make([]Document, len(docs)),
		byID: make(map[string]int, len(docs)),
	}

	for i, doc := range docs {
		if doc.ID == "" {
			return nil, errors.ValidationError(fmt.Sprintf("document at position %d has an empty doc_id", i))
		}
		if _, ok := c.byID[doc.ID]; ok {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate doc_id: %s", doc.ID))
		}
		if len(doc.Tokens) == 0 {
			doc.Tokens = []string{fallbackToken}
		}
		c.docs[i] = doc
		c.byID[doc.ID] = i
	}

	return c, nil
}

// Len returns the number of documents.
func (c *Collection) Len() int {
	return len(c.docs)
}

// Doc returns the document at position i in collection order.
func (c *Collection) Doc(i int) Document {
	return c.docs[i]
}

// Docs returns the documents in collection order. Callers must not mutate
// the returned slice.
func (c *Collection) Docs() []Document {
	return c.docs
}

// ByID looks up a document by identifier.
func (c *Collection) ByID(id string) (Document, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

// Fingerprint returns a content digest over document IDs and text lengths.
// Embedding caches and vector index collections keyed by this fingerprint
// are invalidated automatically when the collection changes.
func (c *Collection) Fingerprint() string {
	ids := make([]string, len(c.docs))
	lengths := make([]int, len(c.docs))
	for i, doc := range c.docs {
		ids[i] = doc.ID
		lengths[i] = len(doc.Title) + len(doc.Body) + len(doc.Tokens)
	}
	return hash.Fingerprint(ids, lengths)
}
