package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

// Completer is a synchronous text completion service: a system instruction and a user
// message in, free text out.
type Completer interface {
	Chat(ctx context.Context, instructions, data string, opts ...ChatOption) (string, error)
	// Name identifies the backing provider in logs and metrics.
	Name() string
}

type ChatOptions struct {
	MaxTokens   int64
	Temperature *float64
}

type ChatOption func(*ChatOptions)

func WithMaxTokens(n int64) ChatOption {
	return func(o *ChatOptions) {
		o.MaxTokens = n
	}
}

func WithTemperature(t float64) ChatOption {
	return func(o *ChatOptions) {
		o.Temperature = &t
	}
}

func buildChatOptions(opts []ChatOption) ChatOptions {
	o := ChatOptions{MaxTokens: 1024}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LLMClient talks to any OpenAI compatible chat completions endpoint.
type LLMClient struct {
	client *openai.Client
	model  string
}

func NewLLMClient(url, model string) *LLMClient {
	var options []option.RequestOption
	if url != "" {
		options = append(options, option.WithBaseURL(url))
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY not set, assuming endpoint does not require authentication")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(options...)
	return &LLMClient{
		client: &client,
		model:  model,
	}
}

func (llm *LLMClient) Name() string {
	return "openai"
}

func (llm *LLMClient) Chat(ctx context.Context, instructions, data string, opts ...ChatOption) (string, error) {
	o := buildChatOptions(opts)
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(data),
		},
		Model:     llm.model,
		MaxTokens: openai.Int(o.MaxTokens),
	}
	if o.Temperature != nil {
		params.Temperature = openai.Float(*o.Temperature)
	}

	resp, err := llm.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", llm.model)
	}

	return resp.Choices[0].Message.Content, nil
}
