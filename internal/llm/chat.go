package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ChatCompletionsClient implements Client for OpenAI-compatible chat-completions endpoints
// such as Groq.
type ChatCompletionsClient struct {
	config     *Config
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewChatCompletionsClient creates a client for the configured endpoint
func NewChatCompletionsClient(config *Config, httpClient *http.Client) *ChatCompletionsClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ChatCompletionsClient{config: config, httpClient: httpClient}
}

// Complete posts a single-message chat request and returns choices[0].message.content
func (c *ChatCompletionsClient) Complete(ctx context.Context, prompt, credential string, tier ModelTier) (string, error) {
	if credential == "" {
		return "", &TransportError{Message: "API credential is required"}
	}
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &TransportError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	body, err := json.Marshal(chatRequest{
		Model:       modelName,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	endpoint := c.config.Endpoint
	if endpoint == "" {
		endpoint = DefaultGroqEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var apiErr chatErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &TransportError{StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &MalformedResponseError{Message: "chat response is not JSON", Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &MalformedResponseError{Message: "no choices in response"}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &MalformedResponseError{Message: "empty message content"}
	}
	return content, nil
}

// GetModel returns the model name for a tier
func (c *ChatCompletionsClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *ChatCompletionsClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
