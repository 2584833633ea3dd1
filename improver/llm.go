package improver

import (
	"context"
	"errors"
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// SecretSource yields the API key; settings.Store satisfies it.
type SecretSource interface {
	Get(ctx context.Context) (string, bool, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider    string
	Model       string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
}

var (
	ErrMissingSecret     = errors.New("api key not found")
	ErrMalformedResponse = errors.New("model response had no completion text")
)

// User-facing failure messages.
const (
	MissingSecretMessage     = "API key not found. Please set your OpenAI API key in the extension settings."
	MalformedResponseMessage = "The model returned no improved text."
	EmptySelectionMessage    = "No text selected. Please select some text first."
)

// APIError carries the message the completion server reported.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "API Error: " + e.Message
}
