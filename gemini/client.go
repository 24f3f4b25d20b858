package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"food-shorts-pipeline/config"
)

// Client wraps the Gemini API for the two text-generation calls the
// pipeline makes: the food idea + scene script, and the SEO metadata.
type Client struct {
	genai *genai.Client
	cfg   *config.GeminiConfig
}

// NewClient creates a Gemini client using GEMINI_API_KEY from the environment
func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{genai: client, cfg: cfg}, nil
}

// Close releases the underlying API connection
func (c *Client) Close() error {
	return c.genai.Close()
}

func (c *Client) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model := c.genai.GenerativeModel(c.cfg.Model)
	model.SetTemperature(float32(c.cfg.Temperature))
	model.SetMaxOutputTokens(int32(maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
