// Package index defines the knowledge artifact: the chunk→vector index
// built offline and read by the search engine.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Chunk is the unit of retrieval: a bounded slice of source text plus its
// embedding. Immutable once embedded.
type Chunk struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	URL       *string   `json:"url"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Meta describes how and when the index was built.
type Meta struct {
	Model       string    `json:"model"`
	UpdatedAt   time.Time `json:"updatedAt"`
	TotalChunks int       `json:"totalChunks"`
	TotalFiles  int       `json:"totalFiles"`
}

// Index is the persisted knowledge artifact.
type Index struct {
	Meta   Meta    `json:"meta"`
	Chunks []Chunk `json:"chunks"`
}

// Save writes the index as a single JSON artifact. The write is atomic:
// a temp file in the same directory is renamed over the target, so readers
// never observe a half-written index.
func (idx *Index) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".knowledge-*.json")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Load reads the artifact at path. A missing file is not an error: it is
// the legitimate "no knowledge base built yet" state, reported as nil, nil.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &idx, nil
}
