package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient uses the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Name() string {
	return "gemini"
}

func (c *GeminiClient) Chat(ctx context.Context, instructions, data string, opts ...ChatOption) (string, error) {
	o := buildChatOptions(opts)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instructions, genai.RoleUser),
		MaxOutputTokens:   int32(o.MaxTokens), // #nosec G115
	}
	if o.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*o.Temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(data), config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text in response from model %s", c.model)
	}
	return text, nil
}
