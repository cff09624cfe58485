package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tutorbot/internal/chunker"
	"tutorbot/internal/embedder"
	"tutorbot/internal/index"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir> [dir...]",
	Short: "Build the knowledge artifact from help-center documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := make([]string, 0, len(args))
		for _, a := range args {
			abs, err := filepath.Abs(a)
			if err != nil {
				return err
			}
			dirs = append(dirs, abs)
		}

		emb, err := embedder.New(cfg.Embedding)
		if err != nil {
			return fmt.Errorf("embedder: %w", err)
		}
		ch := chunker.New(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)

		var bar *progressbar.ProgressBar
		progress := func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("embedding"),
					progressbar.OptionSetWidth(32),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}

		ing := index.NewIngestor(emb, ch, cfg.Index.Exclude, progress)

		fmt.Printf("Ingesting %d directories...\n", len(dirs))
		start := time.Now()

		idx, err := ing.Ingest(cmd.Context(), dirs)
		if err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Finish()
		}

		if err := idx.Save(cfg.Index.Path); err != nil {
			return fmt.Errorf("save artifact: %w", err)
		}

		fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("  Files:  %d\n", idx.Meta.TotalFiles)
		fmt.Printf("  Chunks: %d\n", idx.Meta.TotalChunks)
		fmt.Printf("  Output: %s\n", cfg.Index.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
