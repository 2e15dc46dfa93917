package corpus

import (
	"encoding/json"
	"os"

	"github.com/banglaclir/clir-search/internal/pkg/errors"
)

// LoadJSON reads a document collection from a JSON file containing an array
// of documents in the interchange shape produced by the preprocessing step.
func LoadJSON(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigurationError("reading document collection", err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, errors.ConfigurationError("parsing document collection", err)
	}

	return NewCollection(docs)
}
