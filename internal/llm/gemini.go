package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini. A genai client is opened per call
// because each session brings its own API key.
type GeminiClient struct {
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(config *Config) *GeminiClient {
	return &GeminiClient{config: config}
}

// Complete generates text content using the specified model tier
func (c *GeminiClient) Complete(ctx context.Context, prompt, credential string, tier ModelTier) (string, error) {
	if credential == "" {
		return "", &TransportError{Message: "API credential is required"}
	}
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &TransportError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(credential))
	if err != nil {
		return "", &TransportError{Message: "failed to create Gemini client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(modelName)
	model.SetTemperature(float32(c.config.Temperature))
	if c.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.config.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		te := &TransportError{Message: "failed to generate content", Cause: err}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			te.StatusCode = apiErr.Code
		}
		return "", te
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &MalformedResponseError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &MalformedResponseError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &MalformedResponseError{Message: "no text parts in response"}
	}

	return strings.TrimSpace(strings.Join(parts, "")), nil
}
