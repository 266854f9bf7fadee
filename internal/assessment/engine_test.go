package assessment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validPayload = `{"scores": {"technical": 80, "communication": 75, "problemSolving": 70, "experience": 65, "culturalFit": 90, "overall": 76}, "feedback": "Solid fundamentals."}`

func testInput() Input {
	questions := types.NumberQuestions([]types.Question{
		{Text: "Explain goroutines.", Category: types.CategoryTechnical},
		{Text: "Tell me about a conflict.", Category: types.CategoryBehavioral},
	})
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	transcript := types.Transcript{}.
		Append(types.SpeakerInterviewer, "Please introduce yourself.", start).
		Append(types.SpeakerCandidate, "I build backend systems.", start.Add(time.Minute))

	return Input{
		Profile: types.Profile{
			Name:          "Sam",
			JobTitle:      "Backend Engineer",
			Experience:    types.Experience4To6,
			Skills:        "Go, Postgres",
			APICredential: "secret-key",
		},
		Questions:  questions,
		Answers:    types.AnswerSet{}.With(1, "Lightweight threads managed by the runtime."),
		Review:     "Clear and accurate.",
		Transcript: transcript,
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    types.Scores
	}{
		{
			name: "bare object",
			raw:  validPayload,
			want: types.Scores{Technical: 80, Communication: 75, ProblemSolving: 70, Experience: 65, CulturalFit: 90, Overall: 76},
		},
		{
			name: "wrapped in prose",
			raw:  "Here you go:\n" + validPayload + "\nThanks",
			want: types.Scores{Technical: 80, Communication: 75, ProblemSolving: 70, Experience: 65, CulturalFit: 90, Overall: 76},
		},
		{
			name: "code fenced",
			raw:  "```json\n" + validPayload + "\n```",
			want: types.Scores{Technical: 80, Communication: 75, ProblemSolving: 70, Experience: 65, CulturalFit: 90, Overall: 76},
		},
		{
			name:    "missing culturalFit",
			raw:     `{"scores": {"technical": 80, "communication": 75, "problemSolving": 70, "experience": 65, "overall": 76}, "feedback": "ok"}`,
			wantErr: true,
		},
		{
			name:    "score above range",
			raw:     `{"scores": {"technical": 150, "communication": 75, "problemSolving": 70, "experience": 65, "culturalFit": 90, "overall": 76}, "feedback": "ok"}`,
			wantErr: true,
		},
		{
			name:    "negative score",
			raw:     `{"scores": {"technical": -1, "communication": 75, "problemSolving": 70, "experience": 65, "culturalFit": 90, "overall": 76}, "feedback": "ok"}`,
			wantErr: true,
		},
		{
			name:    "score as string",
			raw:     `{"scores": {"technical": "80", "communication": 75, "problemSolving": 70, "experience": 65, "culturalFit": 90, "overall": 76}, "feedback": "ok"}`,
			wantErr: true,
		},
		{
			name:    "blank feedback",
			raw:     `{"scores": {"technical": 80, "communication": 75, "problemSolving": 70, "experience": 65, "culturalFit": 90, "overall": 76}, "feedback": "   "}`,
			wantErr: true,
		},
		{
			name:    "no object",
			raw:     "I cannot evaluate this interview.",
			wantErr: true,
		},
		{
			name:    "truncated object",
			raw:     `{"scores": {"technical": 80`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var malformed *llm.MalformedResponseError
				assert.True(t, errors.As(err, &malformed), "expected malformed response error, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Scores)
			assert.Equal(t, "Solid fundamentals.", got.Feedback)
		})
	}
}

func TestEngine_Assess_Success(t *testing.T) {
	client := llmtest.Replying("Here you go:\n" + validPayload + "\nThanks")
	m := metrics.NewMetrics()
	engine := NewEngine(client, zap.NewNop(), m)

	result := engine.Assess(context.Background(), testInput())

	require.True(t, result.Available())
	assert.Nil(t, result.Fallback)
	assert.Equal(t, 76, result.Scores().Overall)
	assert.Equal(t, "Solid fundamentals.", result.Feedback())

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
	assert.Equal(t, "secret-key", calls[0].Credential)
	assert.Contains(t, calls[0].Prompt, "Backend Engineer")
	assert.Contains(t, calls[0].Prompt, "Q: Explain goroutines.\nA: Lightweight threads managed by the runtime.")
	assert.Contains(t, calls[0].Prompt, "Q: Tell me about a conflict.\nA: No answer provided")
	assert.Contains(t, calls[0].Prompt, "Candidate: I build backend systems.")
	assert.Contains(t, calls[0].Prompt, "Clear and accurate.")

	snap := m.GetSnapshot()
	assert.Equal(t, int64(1), snap.AssessmentsProduced)
	assert.Equal(t, int64(0), snap.AssessmentsUnavailable)
}

func TestEngine_Assess_Fallback(t *testing.T) {
	tests := []struct {
		name       string
		client     *llmtest.MockClient
		wantReason string
	}{
		{name: "transport failure", client: llmtest.Failing(llmtest.TransportFailure()), wantReason: "transport"},
		{name: "prose only", client: llmtest.Replying("Great job overall!"), wantReason: "malformed"},
		{
			name:       "out of range",
			client:     llmtest.Replying(strings.Replace(validPayload, `"technical": 80`, `"technical": 150`, 1)),
			wantReason: "malformed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			engine := NewEngine(tt.client, zap.NewNop(), m)

			result := engine.Assess(context.Background(), testInput())

			assert.False(t, result.Available())
			require.NotNil(t, result.Fallback)
			assert.Equal(t, tt.wantReason, result.Fallback.Reason)
			assert.Equal(t, FallbackScores, result.Scores())
			assert.Equal(t, FallbackFeedback, result.Feedback())

			snap := m.GetSnapshot()
			assert.Equal(t, int64(1), snap.AssessmentsUnavailable)
			assert.Equal(t, int64(1), snap.Fallbacks["assessment"])
		})
	}
}

func TestEngine_ReviewWrittenAnswers(t *testing.T) {
	in := testInput()

	t.Run("returns trimmed review", func(t *testing.T) {
		client := llmtest.Replying("  Accurate and concise.  \n")
		engine := NewEngine(client, zap.NewNop(), nil)

		review := engine.ReviewWrittenAnswers(context.Background(), in.Profile, in.Questions, in.Answers)

		assert.Equal(t, "Accurate and concise.", review)
		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, llm.TierStandard, calls[0].Tier)
		assert.Contains(t, calls[0].Prompt, "technical accuracy and communication clarity")
	})

	t.Run("failure yields not available", func(t *testing.T) {
		engine := NewEngine(llmtest.Failing(llmtest.TransportFailure()), zap.NewNop(), nil)
		review := engine.ReviewWrittenAnswers(context.Background(), in.Profile, in.Questions, in.Answers)
		assert.Equal(t, ReviewUnavailable, review)
	})

	t.Run("empty reply yields not available", func(t *testing.T) {
		engine := NewEngine(llmtest.Replying("   "), zap.NewNop(), nil)
		review := engine.ReviewWrittenAnswers(context.Background(), in.Profile, in.Questions, in.Answers)
		assert.Equal(t, ReviewUnavailable, review)
	})
}

func TestBuildPrompt_NoLiveInterview(t *testing.T) {
	in := testInput()
	in.Transcript = nil
	in.Review = ""

	prompt, err := BuildPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "(the live interview was not held)")
	assert.Contains(t, prompt, ReviewUnavailable)
	assert.NotContains(t, prompt, "secret-key")
}

func TestResult_ZeroValue(t *testing.T) {
	var r Result
	assert.False(t, r.Available())
	assert.Equal(t, FallbackScores, r.Scores())
	assert.Equal(t, FallbackFeedback, r.Feedback())
}
