package flags

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/openshift/videa/pkg/ai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// AIFlags selects the completion service behind profile extraction, question
// generation and persona matching.
type AIFlags struct {
	Provider string
	Endpoint string
	Model    string
}

func NewAIFlags() *AIFlags {
	return &AIFlags{
		Provider: ProviderOpenAI,
	}
}

func (f *AIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Provider, "ai-provider", f.Provider, "Completion service: openai, anthropic, gemini or none")
	fs.StringVar(&f.Endpoint, "ai-endpoint", "", "URL for an OpenAI-compatible endpoint. Set OPENAI_API_KEY to specify an API key.")
	fs.StringVar(&f.Model, "ai-model", "", "Model name, defaults depend on the provider")
}

func (f *AIFlags) Validate() error {
	switch f.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderNone:
		return nil
	}
	return fmt.Errorf("unknown ai provider %q", f.Provider)
}

func (f *AIFlags) model() string {
	if f.Model != "" {
		return f.Model
	}
	return defaultModels[f.Provider]
}

// GetCompleter returns nil when no completion service should be used, callers then run
// on the rule based fallbacks only.
func (f *AIFlags) GetCompleter(ctx context.Context) (ai.Completer, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	switch f.Provider {
	case ProviderOpenAI:
		if f.Endpoint == "" && os.Getenv("OPENAI_API_KEY") == "" {
			log.Warn("no --ai-endpoint or OPENAI_API_KEY, completion service disabled")
			return nil, nil
		}
		return ai.NewLLMClient(f.Endpoint, f.model()), nil
	case ProviderAnthropic:
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			log.Warn("ANTHROPIC_API_KEY not set, completion service disabled")
			return nil, nil
		}
		return ai.NewAnthropicClient(f.model()), nil
	case ProviderGemini:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			log.Warn("GEMINI_API_KEY not set, completion service disabled")
			return nil, nil
		}
		client, err := ai.NewGeminiClient(ctx, apiKey, f.model())
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, nil
}
