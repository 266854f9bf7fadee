// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/interview-coach/internal/llm"
)

// Call records one Complete invocation.
type Call struct {
	Prompt     string
	Credential string
	Tier       llm.ModelTier
}

// MockClient implements llm.Client for testing
type MockClient struct {
	CompleteFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	mu    sync.Mutex
	calls []Call
}

// Replying returns a client that always answers text.
func Replying(text string) *MockClient {
	return &MockClient{CompleteFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		return text, nil
	}}
}

// Failing returns a client whose every call fails with err.
func Failing(err error) *MockClient {
	return &MockClient{CompleteFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		return "", err
	}}
}

// TransportFailure is a ready-made network failure.
func TransportFailure() error {
	return &llm.TransportError{StatusCode: 503, Message: "service unavailable"}
}

// Complete records the call and delegates to CompleteFunc.
func (m *MockClient) Complete(ctx context.Context, prompt, credential string, tier llm.ModelTier) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Credential: credential, Tier: tier})
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, tier)
	}
	return "", nil
}

// GetModel returns a fixed model name
func (m *MockClient) GetModel(llm.ModelTier) string {
	return "mock-model"
}

// Close is a no-op
func (m *MockClient) Close() error {
	return nil
}

// Calls returns a copy of the recorded calls.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastPrompt returns the most recent prompt, or "".
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1].Prompt
}
