package improver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1/"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// The API key is read from the secret source on every call.
type OpenAILLM struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Opts        []option.RequestOption

	secrets SecretSource
}

func NewOpenAILLMFromConfig(cfg *LLMSettings, secrets SecretSource) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if secrets == nil {
		return nil, errors.New("secret source is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	// 失败不重试，由用户重新触发。
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithMiddleware(apiErrorMiddleware),
	}
	return &OpenAILLM{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: cfg.Temperature,
		Opts:        opts,
		secrets:     secrets,
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	apiKey, ok, err := o.secrets.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	if !ok || apiKey == "" {
		return "", ErrMissingSecret
	}

	opts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, o.Opts...)
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		MaxTokens:   openai.Int(o.MaxTokens),
		Temperature: openai.Float(o.Temperature),
	})
	if err != nil {
		// Status errors were already turned into *APIError by apiErrorMiddleware.
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// apiErrorMiddleware turns any non-success status into an *APIError before
// the SDK tries to decode the body, so unparseable error bodies still map to
// a readable message.
func apiErrorMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
}

// errorMessage digs error.message out of an error body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "message"} {
			if m := gjson.GetBytes(body, path); m.Type == gjson.String && m.String() != "" {
				return m.String()
			}
		}
	}
	return "Unknown error"
}
