// File path: internal/chat/runner.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/docschat/docschat/internal/llm"
)

// runGeneration drives the generation backend through a single-node message
// graph. The graph state carries the assembled prompt in and the model's
// answer out, which keeps the synthesis step in one place should retrieval
// ever grow additional nodes.
func runGeneration(ctx context.Context, provider llm.Provider, prompt string) (string, error) {
	g := graph.NewMessageGraph()
	g.AddNode("generate", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		if len(state) == 0 {
			return nil, errors.New("empty graph state")
		}
		answer, err := provider.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: messageText(state[len(state)-1])}})
		if err != nil {
			return nil, err
		}
		return append(state, llms.TextParts(llms.ChatMessageTypeAI, answer)), nil
	})
	g.AddEdge("generate", graph.END)
	g.SetEntryPoint("generate")
	runnable, err := g.Compile()
	if err != nil {
		return "", fmt.Errorf("compile generation graph: %w", err)
	}
	state, err := runnable.Invoke(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", err
	}
	if len(state) == 0 {
		return "", errors.New("generation graph produced no output")
	}
	return strings.TrimSpace(messageText(state[len(state)-1])), nil
}

func messageText(mc llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range mc.Parts {
		if text, ok := part.(llms.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}
