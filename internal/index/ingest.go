package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tutorbot/internal/chunker"
	"tutorbot/internal/embedder"
	"tutorbot/internal/walker"
)

const (
	// embedBatchSize is how many chunk texts go to the embedding service
	// per request.
	embedBatchSize = 10
	// interBatchDelay spaces out embedding requests to respect rate limits.
	interBatchDelay = 200 * time.Millisecond
)

// Ingestor builds the knowledge index from document directories.
type Ingestor struct {
	emb      embedder.Client
	chunker  *chunker.Chunker
	exclude  []string
	progress func(done, total int)
}

// NewIngestor creates an ingestor. progress may be nil; when set it is
// called after each embedded batch with (chunks done, chunks total).
func NewIngestor(emb embedder.Client, ch *chunker.Chunker, exclude []string, progress func(done, total int)) *Ingestor {
	if ch == nil {
		ch = chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap)
	}
	return &Ingestor{emb: emb, chunker: ch, exclude: exclude, progress: progress}
}

// Ingest reads all documents under dirs, chunks them, embeds the chunks in
// batches, and returns the complete index. Any embedding failure aborts the
// whole run: a partially embedded index is never returned.
func (ing *Ingestor) Ingest(ctx context.Context, dirs []string) (*Index, error) {
	var chunks []Chunk
	files := 0

	prefixes := docPrefixes(dirs)
	for di, dir := range dirs {
		infos, err := walker.Walk(dir, ing.exclude)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
		for _, info := range infos {
			data, err := os.ReadFile(info.Path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", info.Path, err)
			}
			pieces := ing.chunker.Split(string(data))
			if len(pieces) == 0 {
				continue
			}
			files++
			rel := prefixes[di] + info.RelPath
			for ord, p := range pieces {
				chunks = append(chunks, Chunk{
					ID:     fmt.Sprintf("%s#%d", rel, ord),
					Source: fmt.Sprintf("%s:%d-%d", rel, p.StartLine, p.EndLine),
					Text:   p.Text,
				})
			}
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no documents found under %v", dirs)
	}

	if err := ing.embedAll(ctx, chunks); err != nil {
		return nil, err
	}

	return &Index{
		Meta: Meta{
			Model:       ing.emb.Model(),
			UpdatedAt:   time.Now().UTC(),
			TotalChunks: len(chunks),
			TotalFiles:  files,
		},
		Chunks: chunks,
	}, nil
}

// docPrefixes returns the locator prefix for each ingest directory. A
// single directory keeps bare relative paths; with several, same-named
// files in different directories must not collide, so paths are prefixed
// with the directory base name, or the full cleaned path when two
// directories share a base.
func docPrefixes(dirs []string) []string {
	prefixes := make([]string, len(dirs))
	if len(dirs) < 2 {
		return prefixes
	}
	bases := make(map[string]int, len(dirs))
	for _, dir := range dirs {
		bases[filepath.Base(dir)]++
	}
	for i, dir := range dirs {
		if bases[filepath.Base(dir)] == 1 {
			prefixes[i] = filepath.Base(dir) + "/"
		} else {
			prefixes[i] = strings.TrimPrefix(filepath.ToSlash(filepath.Clean(dir)), "/") + "/"
		}
	}
	return prefixes
}

func (ing *Ingestor) embedAll(ctx context.Context, chunks []Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		vectors, err := ing.emb.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		for i, vec := range vectors {
			chunks[start+i].Embedding = vec
		}

		if ing.progress != nil {
			ing.progress(end, len(chunks))
		}

		if end < len(chunks) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interBatchDelay):
			}
		}
	}
	return nil
}
