// File path: internal/llm/providers/provider.go
package providers

import "context"

// Message is a single chat exchange entry passed to a backend.
type Message struct {
	Role    string
	Content string
}

// Provider is the narrow contract the engine needs from a generation and
// embedding backend. Implementations must be safe for concurrent use.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
