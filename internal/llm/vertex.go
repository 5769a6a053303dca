package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// VertexClient implements Client for Gemini models served by Vertex AI.
// It authenticates with application default credentials when a project is
// configured, or with an express-mode API key otherwise.
type VertexClient struct {
	client *genai.Client
	config *Config
}

// NewVertexClient creates a new Vertex AI client
func NewVertexClient(ctx context.Context, config *Config, apiKey string) (*VertexClient, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendVertexAI}
	switch {
	case strings.TrimSpace(config.Project) != "":
		cfg.Project = config.Project
		cfg.Location = config.Location
	case strings.TrimSpace(apiKey) != "":
		cfg.APIKey = apiKey
	default:
		return nil, errors.New("vertex requires a project or an API key")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex client: %w", err)
	}

	return &VertexClient{client: client, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *VertexClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, "")
}

// GenerateJSON generates JSON content using the specified model tier
func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, "application/json")
}

func (c *VertexClient) generate(ctx context.Context, prompt string, tier ModelTier, mimeType string) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	temperature := c.config.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: mimeType,
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// first candidate with content only
		if builder.Len() > 0 {
			break
		}
	}

	if builder.Len() == 0 {
		return "", errors.New("no text parts in response")
	}
	return builder.String(), nil
}

// GetModel returns the model name for a tier
func (c *VertexClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai client holds no releasable resources.
func (c *VertexClient) Close() error {
	return nil
}
