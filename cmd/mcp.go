package cmd

import (
	"context"
	"fmt"
	"strings"

	"tutorbot/internal/bot"
	"tutorbot/internal/embedder"
	"tutorbot/internal/facts"
	"tutorbot/internal/llm"
	"tutorbot/internal/search"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing support tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	emb, err := embedder.New(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("embedder: %w", err)
	}
	completer, err := llm.New(cfg.Chat)
	if err != nil {
		return fmt.Errorf("chat model: %w", err)
	}
	store, err := facts.OpenSQLite(cfg.Facts.DBPath)
	if err != nil {
		return fmt.Errorf("fact store: %w", err)
	}
	defer store.Close()

	engine := search.NewEngine(cfg.Index.Path)
	resolver := facts.NewResolver(store, nil)
	b := bot.New(engine, emb, completer, resolver,
		bot.WithTopK(cfg.Index.TopK),
		bot.WithMinQueryLen(cfg.Index.MinQueryLen),
	)

	s := mcpserver.NewMCPServer("tutorbot", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(askSupportTool(), makeAskHandler(b))
	s.AddTool(searchKnowledgeTool(), makeSearchHandler(engine, emb, cfg.Index.TopK))
	s.AddTool(lookupTutorTool(), makeLookupHandler(store))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func askSupportTool() mcp.Tool {
	return mcp.NewTool("ask_support",
		mcp.WithDescription("Answer a support question about the tutoring platform, grounded in tutor data and help-center documents."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The support question to answer"),
		),
	)
}

func searchKnowledgeTool() mcp.Tool {
	return mcp.NewTool("search_knowledge",
		mcp.WithDescription("Semantically search the help-center knowledge base. Returns the most similar passages with their source locators."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language query against the knowledge base"),
		),
		mcp.WithNumber("k",
			mcp.Description("Maximum number of passages to return (default 5)"),
		),
	)
}

func lookupTutorTool() mcp.Tool {
	return mcp.NewTool("lookup_tutor",
		mcp.WithDescription("Look up a tutor by name. Returns subjects, hourly price, rating, and availability."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Tutor name, case-insensitive exact match"),
		),
	)
}

func makeAskHandler(b *bot.Bot) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question := req.GetString("question", "")
		if question == "" {
			return mcp.NewToolResultError("question is required"), nil
		}
		answer, err := b.Answer(ctx, []llm.Message{{Role: llm.RoleUser, Content: question}})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
		}
		return mcp.NewToolResultText(answer), nil
	}
}

func makeSearchHandler(engine *search.Engine, emb embedder.Client, defaultK int) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		k := req.GetInt("k", defaultK)
		if k <= 0 {
			k = defaultK
		}

		vec, err := emb.Embed(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("embed query failed: %v", err)), nil
		}
		results, err := engine.Search(vec, k)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		if len(results) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No results found for query: %q", query)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Search results for %q (%d passages)\n\n", query, len(results))
		for i, r := range results {
			fmt.Fprintf(&sb, "### Result %d: `%s` (score %.3f)\n\n%s\n\n", i+1, r.Chunk.Source, r.Score, r.Chunk.Text)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeLookupHandler(store facts.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}
		t, err := store.TutorByName(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		if t == nil {
			return mcp.NewToolResultText(fmt.Sprintf("No tutor named %q is registered on the platform.", name)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## %s\n\n", t.Name)
		if len(t.Subjects) > 0 {
			fmt.Fprintf(&sb, "**Subjects:** %s  \n", strings.Join(t.Subjects, ", "))
		}
		if price, ok := facts.HourlyPrice(t); ok {
			fmt.Fprintf(&sb, "**Hourly price:** $%d  \n", price)
		}
		if t.Rating != nil && t.ReviewsCount > 0 {
			fmt.Fprintf(&sb, "**Rating:** %s (%d reviews)  \n", *t.Rating, t.ReviewsCount)
		}
		if t.Availability != "" {
			fmt.Fprintf(&sb, "**Availability:** %s  \n", t.Availability)
		}
		if t.Bio != "" {
			fmt.Fprintf(&sb, "\n%s\n", t.Bio)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
