// File path: internal/llm/llm.go
package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/docschat/docschat/internal/common"
	"github.com/docschat/docschat/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

const (
	RoleSystem    = providers.RoleSystem
	RoleUser      = providers.RoleUser
	RoleAssistant = providers.RoleAssistant
)

// NewCloudProvider builds the OpenAI-backed provider used by the normal
// operating mode. The API key is mandatory; the endpoint and HTTP timeout
// may be overridden through the environment.
func NewCloudProvider() (Provider, error) {
	logger := common.Logger()
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		} else {
			logger.Info("llm: configuring OpenAI client with custom HTTP timeout", "timeout", timeout)
			opts = append(opts, option.WithRequestTimeout(timeout))
		}
	}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	} else {
		logger.Debug("llm: using default OpenAI endpoint")
	}
	client := openai.NewClient(opts...)
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(client), nil
}

// NewLocalProvider builds the Ollama-backed provider used by the private
// operating mode.
func NewLocalProvider() (Provider, error) {
	return providers.NewOllamaProvider()
}
