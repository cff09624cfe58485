// Package bot orchestrates a support answer: classify the question, look
// up structured facts, retrieve knowledge-base passages, and hand the
// model a grounded prompt.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"tutorbot/internal/embedder"
	"tutorbot/internal/facts"
	"tutorbot/internal/intent"
	"tutorbot/internal/llm"
	"tutorbot/internal/search"
)

const systemPrompt = `You are a support assistant for an online tutoring marketplace. Answer using ONLY the context provided below.

The DATABASE FACTS section is authoritative: mirror its counts, names, and prices exactly. If it says a tutor or subject was not found, say so. NEVER invent tutors, subjects, prices, ratings, or policies that are not in the context, and never produce estimates or placeholder values.

The KNOWLEDGE BASE section contains help-center passages; use them for how-to and policy questions. If the context does not answer the question, say you do not have that information and suggest contacting support.`

// DefaultMinQueryLen is the minimum query length, in runes, that triggers
// knowledge-base retrieval. Shorter queries produce noisy neighbors.
const DefaultMinQueryLen = 12

// Bot answers support questions over a fact store and a knowledge index.
type Bot struct {
	engine      *search.Engine
	emb         embedder.Client
	completer   llm.Completer
	resolver    *facts.Resolver
	topK        int
	minQueryLen int
	logger      *log.Logger
}

// Option configures a Bot.
type Option func(*Bot)

// WithTopK overrides how many passages retrieval returns.
func WithTopK(k int) Option {
	return func(b *Bot) {
		if k > 0 {
			b.topK = k
		}
	}
}

// WithMinQueryLen overrides the retrieval length gate.
func WithMinQueryLen(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.minQueryLen = n
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.logger = l
		}
	}
}

// New wires the orchestrator. engine and resolver may be nil when the
// corresponding data source is not configured; the bot degrades to the
// sources it has.
func New(engine *search.Engine, emb embedder.Client, completer llm.Completer, resolver *facts.Resolver, opts ...Option) *Bot {
	b := &Bot{
		engine:      engine,
		emb:         emb,
		completer:   completer,
		resolver:    resolver,
		topK:        search.DefaultTopK,
		minQueryLen: DefaultMinQueryLen,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Answer produces a reply for the conversation. The last user message is
// the active question; everything before it is context for the model.
// Completion errors propagate so callers can map them to transport codes.
func (b *Bot) Answer(ctx context.Context, history []llm.Message) (string, error) {
	query := lastUserMessage(history)
	if query == "" {
		return b.completer.Complete(ctx, history)
	}

	factBlock := b.resolveFacts(ctx, query)
	retrievalBlock := b.retrieve(ctx, query)

	// Nothing grounded to add: the conversation goes through untouched.
	if factBlock == "" && retrievalBlock == "" {
		return b.completer.Complete(ctx, history)
	}

	return b.completer.Complete(ctx, buildMessages(history, query, factBlock, retrievalBlock))
}

func (b *Bot) resolveFacts(ctx context.Context, query string) string {
	if b.resolver == nil {
		return ""
	}
	return b.resolver.Resolve(ctx, intent.Classify(query))
}

// retrieve embeds the query and returns the formatted top passages.
// Retrieval is best-effort: a missing index, embed failure, or search
// failure yields "" and the answer proceeds on facts alone.
func (b *Bot) retrieve(ctx context.Context, query string) string {
	if b.engine == nil || b.emb == nil {
		return ""
	}
	if utf8.RuneCountInString(query) < b.minQueryLen {
		return ""
	}
	idx, err := b.engine.Load()
	if err != nil {
		b.logger.Printf("bot: load index: %v", err)
		return ""
	}
	if idx == nil {
		return ""
	}
	vec, err := b.emb.Embed(ctx, query)
	if err != nil {
		b.logger.Printf("bot: embed query: %v", err)
		return ""
	}
	results, err := b.engine.Search(vec, b.topK)
	if err != nil {
		b.logger.Printf("bot: search: %v", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(r.Chunk.Text))
		fmt.Fprintf(&sb, "\n[source: %s]", r.Chunk.Source)
	}
	return sb.String()
}

// buildMessages assembles the grounded prompt. Exactly one system message
// reaches the model: caller-supplied system turns are dropped and the last
// user turn is replaced by a context turn carrying facts, passages, and
// the question.
func buildMessages(history []llm.Message, query, factBlock, retrievalBlock string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	lastUser := lastUserIndex(history)
	for i, m := range history {
		if m.Role == llm.RoleSystem || i == lastUser {
			continue
		}
		msgs = append(msgs, m)
	}

	var sb strings.Builder
	if factBlock != "" {
		sb.WriteString("DATABASE FACTS:\n")
		sb.WriteString(factBlock)
		sb.WriteString("\n\n")
	}
	if retrievalBlock != "" {
		sb.WriteString("KNOWLEDGE BASE:\n")
		sb.WriteString(retrievalBlock)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(query)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: sb.String()})

	return msgs
}

func lastUserIndex(history []llm.Message) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llm.RoleUser {
			return i
		}
	}
	return -1
}

func lastUserMessage(history []llm.Message) string {
	if i := lastUserIndex(history); i >= 0 {
		return strings.TrimSpace(history[i].Content)
	}
	return ""
}
