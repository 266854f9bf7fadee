package main

import (
	"context"
	"strings"
	"testing"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

const (
	questionsJSON = `[
		{"question": "How would you partition a hot Postgres table?", "type": "technical"},
		{"question": "How do you bound goroutine fan-out?", "type": "technical"},
		{"question": "Tell me about a time you pushed back on a deadline.", "type": "behavioral"},
		{"question": "Describe the most complex system you shipped.", "type": "project"}
	]`
	assessmentJSON = `{"scores": {"technical": 84, "communication": 79, "problemSolving": 73, "experience": 70, "culturalFit": 91, "overall": 80}, "feedback": "Strong systems thinking.\n\nQuantify your impact more often."}`
	liveReply      = "What trade-offs did you weigh there?"
	reviewText     = "Concise and mostly correct."
)

func scriptedClient() *llmtest.MockClient {
	return &llmtest.MockClient{CompleteFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
		switch tier {
		case llm.TierLite:
			return liveReply, nil
		case llm.TierAdvanced:
			return assessmentJSON, nil
		default:
			if strings.HasPrefix(prompt, "Generate") {
				return questionsJSON, nil
			}
			return reviewText, nil
		}
	}}
}

func testComponents(t *testing.T, client llm.Client) components {
	t.Helper()
	return newComponents(config.Defaults(), client, zap.NewNop(), metrics.NewMetrics())
}

func testProfile() types.Profile {
	return types.Profile{
		Name:          "Riley",
		Email:         "riley@example.com",
		JobTitle:      "Backend Engineer",
		Experience:    types.Experience4To6,
		Skills:        "Go, Postgres, Kafka",
		APICredential: "gsk_cli_secret",
	}
}
