package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	content := `[
		{"doc_id": "doc1", "title": "Cricket", "body": "Bangladesh won.", "language": "en", "tokens": ["cricket", "bangladesh"]},
		{"doc_id": "doc2", "title": "অর্থনীতি", "body": "প্রবৃদ্ধি", "language": "bn", "tokens": ["অর্থনীতি"]}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	coll, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}

	if coll.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", coll.Len())
	}
	if doc, ok := coll.ByID("doc2"); !ok || doc.Language != "bn" {
		t.Errorf("ByID(doc2) = (%+v, %v)", doc, ok)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.IsConfiguration(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadJSON(path)
	if !errors.IsConfiguration(err) {
		t.Errorf("error = %v, want configuration error", err)
	}
}
