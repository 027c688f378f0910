// File path: internal/llm/providers/openai_client.go
package providers

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v2"

	"github.com/docschat/docschat/internal/common"
)

// OpenAIProvider backs the normal operating mode with the hosted OpenAI API.
type OpenAIProvider struct {
	client     openai.Client
	chatModel  string
	embedModel string
}

func NewOpenAIProvider(client openai.Client) *OpenAIProvider {
	chatModel := os.Getenv("OPENAI_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	embedModel := os.Getenv("OPENAI_EMBED_MODEL")
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}
	logger := common.Logger()
	logger.Info("llm: OpenAI provider configured", "chat_model", chatModel, "embed_model", embedModel)
	return &OpenAIProvider{client: client, chatModel: chatModel, embedModel: embedModel}
}

func (o *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	logger := common.Logger()
	logger.Debug("llm: sending chat completion request", "model", o.chatModel, "messages", len(messages))
	params := openai.ChatCompletionNewParams{Model: openai.ChatModel(o.chatModel)}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("llm: chat completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	logger.Debug("llm: chat completion succeeded")
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}
	logger := common.Logger()
	logger.Debug("llm: creating embeddings", "model", o.embedModel, "items", len(input))
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.embedModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: input},
	})
	if err != nil {
		logger.Error("llm: embedding request failed", "error", err)
		return nil, err
	}
	vectors := make([][]float32, 0, len(resp.Data))
	for _, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		vectors = append(vectors, vec)
	}
	logger.Debug("llm: embedding request succeeded", "returned", len(vectors))
	return vectors, nil
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

var _ Provider = (*OpenAIProvider)(nil)
