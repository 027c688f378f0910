// File path: internal/chat/engine.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docschat/docschat/internal/catalog"
	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/common/telemetry"
	"github.com/docschat/docschat/internal/profile"
	"github.com/docschat/docschat/internal/vector"
)

// ErrDocumentNotFound reports a question against a document that was never
// ingested. User-visible and retriable with a corrected name.
var ErrDocumentNotFound = errors.New("document not found")

// Engine assembles retrieval context and conversation history under their
// budgets and synthesizes answers through the profile's backend.
type Engine struct {
	catalog *catalog.Store
	indexes *vector.Store
	cfg     Config
}

func NewEngine(cat *catalog.Store, indexes *vector.Store, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.ConversationBudget <= 0 {
		cfg.ConversationBudget = defaults.ConversationBudget
	}
	if cfg.DocumentBudget <= 0 {
		cfg.DocumentBudget = defaults.DocumentBudget
	}
	if cfg.TitleBudget <= 0 {
		cfg.TitleBudget = defaults.TitleBudget
	}
	if cfg.RetrievalChunkSize <= 0 {
		cfg.RetrievalChunkSize = defaults.RetrievalChunkSize
	}
	if cfg.RetrievalLimit <= 0 {
		cfg.RetrievalLimit = defaults.RetrievalLimit
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaults.GenerationTimeout
	}
	return &Engine{catalog: cat, indexes: indexes, cfg: cfg}
}

// Answer responds to a question about a document. The document record is
// verified before any index access so a missing document surfaces as
// ErrDocumentNotFound instead of a confusing index error. The returned text
// is not persisted here; recording the turn is the caller's responsibility.
func (e *Engine) Answer(ctx context.Context, prof profile.Profile, documentName, question string, history []Turn) (string, error) {
	logger := common.Logger()
	ctx, finish := telemetry.StartSpan(ctx, "chat.answer")
	defer finish("document", documentName)
	doc, err := e.catalog.GetDocument(ctx, prof.Mode, documentName)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			logger.Warn("chat: question against unknown document", "document", documentName, "mode", prof.Mode)
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("load document record: %w", err)
	}

	// The retrieval query is recent human intent plus the new question.
	combined := FormatHistory(history, e.cfg.ConversationBudget, true) + "\nHuman: " + question
	vectors, err := prof.Provider.Embed(ctx, []string{combined})
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return "", errors.New("embedding backend returned no vector")
	}
	ix, err := e.indexes.Load(prof.Root, doc.Name)
	if err != nil {
		return "", fmt.Errorf("load index for %s: %w", doc.Name, err)
	}
	searchStart := time.Now()
	results := ix.Search(vectors[0], e.cfg.RetrievalLimit)
	telemetry.RecordRetrieval(time.Since(searchStart))
	excerpts := TrimChunks(resplitResults(results, e.cfg.RetrievalChunkSize), e.cfg.DocumentBudget)
	conversation := FormatHistory(history, e.cfg.ConversationBudget, false)

	prompt, err := chatPrompt.Format(map[string]any{
		"summaries":    strings.Join(excerpts, "\n\n"),
		"conversation": conversation,
		"question":     question,
	})
	if err != nil {
		return "", fmt.Errorf("format chat prompt: %w", err)
	}
	logger.Debug("chat: prompt assembled",
		"document", doc.Name,
		"excerpts", len(excerpts),
		"history_turns", len(history),
		"prompt_runes", len([]rune(prompt)))

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	defer cancel()
	answer, err := runGeneration(genCtx, prof.Provider, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// Title derives a short label from an early exchange. Purely advisory: on
// failure the caller substitutes a prior or placeholder title and the turn
// is still recorded.
func (e *Engine) Title(ctx context.Context, prof profile.Profile, history []Turn) (string, error) {
	conversation := FormatHistory(history, e.cfg.TitleBudget, false)
	prompt, err := titlePrompt.Format(map[string]any{"convo": conversation})
	if err != nil {
		return "", fmt.Errorf("format title prompt: %w", err)
	}
	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerationTimeout)
	defer cancel()
	title, err := runGeneration(genCtx, prof.Provider, prompt)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return strings.Trim(strings.TrimSpace(title), `"`), nil
}
