package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient implements Client for OpenAI chat models through langchaingo.
type OpenAIClient struct {
	config *Config
	// models caches one langchaingo model per model name
	models map[string]llms.Model
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	c := &OpenAIClient{
		config: config,
		models: make(map[string]llms.Model),
	}
	// build every configured model up front so calls never mutate the cache
	for _, name := range config.Models {
		if _, ok := c.models[name]; ok || name == "" {
			continue
		}
		model, err := openai.New(openai.WithToken(apiKey), openai.WithModel(name))
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client for %s: %w", name, err)
		}
		c.models[name] = model
	}
	return c, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, llms.WithJSONMode())
}

func (c *OpenAIClient) generate(ctx context.Context, prompt string, tier ModelTier, opts ...llms.CallOption) (string, error) {
	modelName := c.config.GetModel(tier)
	model, ok := c.models[modelName]
	if !ok {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	opts = append(opts, llms.WithTemperature(float64(c.config.Temperature)))
	text, err := llms.GenerateFromSinglePrompt(ctx, model, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return text, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; langchaingo clients hold no releasable resources.
func (c *OpenAIClient) Close() error {
	return nil
}
