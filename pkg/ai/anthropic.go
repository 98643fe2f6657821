package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicClient uses the Messages API. The API key is read from ANTHROPIC_API_KEY.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(),
		model:  model,
	}
}

func (c *AnthropicClient) Name() string {
	return "anthropic"
}

func (c *AnthropicClient) Chat(ctx context.Context, instructions, data string, opts ...ChatOption) (string, error) {
	o := buildChatOptions(opts)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: o.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: instructions},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(data)),
		},
	}
	if o.Temperature != nil {
		params.Temperature = anthropic.Float(*o.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response from model %s", c.model)
	}
	return sb.String(), nil
}
