package cmd

import (
	"fmt"

	"tutorbot/internal/bot"
	"tutorbot/internal/embedder"
	"tutorbot/internal/facts"
	"tutorbot/internal/llm"
	"tutorbot/internal/search"
)

// buildBot assembles the chat core from the loaded config. The returned
// cleanup closes the fact store.
func buildBot() (*bot.Bot, func(), error) {
	emb, err := embedder.New(cfg.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder: %w", err)
	}
	completer, err := llm.New(cfg.Chat)
	if err != nil {
		return nil, nil, fmt.Errorf("chat model: %w", err)
	}

	store, err := facts.OpenSQLite(cfg.Facts.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("fact store: %w", err)
	}

	engine := search.NewEngine(cfg.Index.Path)
	resolver := facts.NewResolver(store, nil)

	b := bot.New(engine, emb, completer, resolver,
		bot.WithTopK(cfg.Index.TopK),
		bot.WithMinQueryLen(cfg.Index.MinQueryLen),
	)
	cleanup := func() { store.Close() }
	return b, cleanup, nil
}
