// File path: internal/llm/providers/ollama.go
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/docschat/docschat/internal/common"
)

// OllamaProvider backs the private operating mode with a local Ollama
// instance, so neither document content nor questions leave the host.
type OllamaProvider struct {
	chat  *ollama.LLM
	embed *ollama.LLM
}

func NewOllamaProvider() (*OllamaProvider, error) {
	serverURL := strings.TrimSpace(os.Getenv("OLLAMA_HOST"))
	if serverURL == "" {
		serverURL = "http://127.0.0.1:11434"
	}
	chatModel := os.Getenv("OLLAMA_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "llama3"
	}
	embedModel := os.Getenv("OLLAMA_EMBED_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	chat, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(chatModel))
	if err != nil {
		return nil, fmt.Errorf("init ollama chat model: %w", err)
	}
	embed, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(embedModel))
	if err != nil {
		return nil, fmt.Errorf("init ollama embed model: %w", err)
	}
	logger := common.Logger()
	logger.Info("llm: Ollama provider configured", "server", serverURL, "chat_model", chatModel, "embed_model", embedModel)
	return &OllamaProvider{chat: chat, embed: embed}, nil
}

func (o *OllamaProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	logger := common.Logger()
	logger.Debug("llm: sending local chat request", "messages", len(content))
	resp, err := o.chat.GenerateContent(ctx, content)
	if err != nil {
		logger.Error("llm: local chat request failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Content, nil
}

func (o *OllamaProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}
	logger := common.Logger()
	logger.Debug("llm: creating local embeddings", "items", len(input))
	vectors, err := o.embed.CreateEmbedding(ctx, input)
	if err != nil {
		logger.Error("llm: local embedding request failed", "error", err)
		return nil, err
	}
	return vectors, nil
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}

var _ Provider = (*OllamaProvider)(nil)
