// Package search ranks knowledge chunks against a query embedding by
// cosine similarity.
package search

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"tutorbot/internal/index"
)

// DefaultTopK is how many chunks a retrieval pass returns.
const DefaultTopK = 5

// Scored is a chunk with its similarity to the query, in [-1, 1].
type Scored struct {
	Chunk index.Chunk
	Score float64
}

// snapshot pairs a loaded index with the artifact mtime it came from.
type snapshot struct {
	idx     *index.Index
	modTime time.Time
}

// Engine serves similarity searches over the knowledge artifact. The loaded
// index is cached and swapped atomically, so concurrent requests share one
// immutable snapshot while re-ingestion replaces the file underneath.
type Engine struct {
	path string
	cur  atomic.Pointer[snapshot]
}

// NewEngine creates an engine reading the artifact at path.
func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

// Load returns the current index snapshot, reloading from disk only when
// the artifact's modification time has changed. A missing artifact is the
// legitimate "no knowledge base yet" state: nil index, nil error.
func (e *Engine) Load() (*index.Index, error) {
	fi, err := os.Stat(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat index: %w", err)
	}

	if cur := e.cur.Load(); cur != nil && cur.modTime.Equal(fi.ModTime()) {
		return cur.idx, nil
	}

	idx, err := index.Load(e.path)
	if err != nil {
		return nil, err
	}
	e.cur.Store(&snapshot{idx: idx, modTime: fi.ModTime()})
	return idx, nil
}

// Search returns up to k chunks ordered by descending cosine similarity to
// query. Chunks whose embeddings cannot be compared (missing vector,
// dimension mismatch) are skipped rather than failing the search.
func (e *Engine) Search(query []float32, k int) ([]Scored, error) {
	idx, err := e.Load()
	if err != nil {
		return nil, err
	}
	if idx == nil || len(idx.Chunks) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	results := make([]Scored, 0, len(idx.Chunks))
	for _, c := range idx.Chunks {
		if len(c.Embedding) == 0 || len(c.Embedding) != len(query) {
			continue
		}
		results = append(results, Scored{Chunk: c, Score: Cosine(query, c.Embedding)})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Cosine computes cosine similarity dot(a,b)/(|a|*|b|). A zero-norm vector
// yields 0, never a division by zero. Mismatched lengths yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
