// File path: internal/chat/config.go
package chat

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docschat/docschat/internal/splitter"
)

// Config carries the budgets and limits for context assembly. All budgets
// are measured in runes of raw text, a deliberate proxy for token counts;
// exact tokenizer accounting is not attempted.
type Config struct {
	ConversationBudget int
	DocumentBudget     int
	TitleBudget        int
	RetrievalChunkSize int
	RetrievalLimit     int
	GenerationTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		ConversationBudget: 500,
		DocumentBudget:     3000,
		TitleBudget:        4000,
		RetrievalChunkSize: splitter.DefaultRetrievalChunkSize,
		RetrievalLimit:     4,
		GenerationTimeout:  2 * time.Minute,
	}
}

// LoadConfig reads engine settings from the environment on top of defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	for _, entry := range []struct {
		env    string
		target *int
	}{
		{"DOCSCHAT_CONVERSATION_BUDGET", &cfg.ConversationBudget},
		{"DOCSCHAT_DOCUMENT_BUDGET", &cfg.DocumentBudget},
		{"DOCSCHAT_TITLE_BUDGET", &cfg.TitleBudget},
		{"DOCSCHAT_RETRIEVAL_CHUNK_SIZE", &cfg.RetrievalChunkSize},
		{"DOCSCHAT_RETRIEVAL_LIMIT", &cfg.RetrievalLimit},
	} {
		raw := strings.TrimSpace(os.Getenv(entry.env))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", entry.env, err)
		}
		if value > 0 {
			*entry.target = value
		}
	}
	if raw := strings.TrimSpace(os.Getenv("DOCSCHAT_GENERATION_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCSCHAT_GENERATION_TIMEOUT: %w", err)
		}
		if parsed > 0 {
			cfg.GenerationTimeout = parsed
		}
	}
	return cfg, nil
}
