package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRehearsal(t *testing.T, client llm.Client) *rehearsal {
	t.Helper()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tick := 0
	return &rehearsal{
		components: testComponents(t, client),
		window:     live.DefaultWindow,
		voice:      speech.DefaultVoice(),
		capture:    speech.DefaultCaptureOptions(),
		review:     true,
		now: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * 15 * time.Second)
		},
	}
}

func TestRehearsal_FullRun(t *testing.T) {
	client := scriptedClient()
	r := newRehearsal(t, client)
	input := strings.Join([]string{
		"Range partitioning by created_at.",
		"",
		"I negotiated scope instead.",
		"A payments ledger.",
		"I led the Kafka migration.",
		"/end",
	}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, r.run(context.Background(), testProfile(), strings.NewReader(input), &out))

	text := out.String()
	assert.Contains(t, text, "Question 4 of 4")
	assert.Contains(t, text, "Interviewer: "+live.OpeningLine)
	assert.Contains(t, text, "Interviewer: "+liveReply)
	assert.Contains(t, text, "I led the Kafka migration.")
	assert.Contains(t, text, "INTERVIEW RESULTS")
	assert.Contains(t, text, "Strong systems thinking.")
	assert.Contains(t, text, reviewText)
	assert.NotContains(t, text, "gsk_cli_secret")
	assert.NotContains(t, text, "Interviewer: "+StopWord)

	var lite int
	for _, call := range client.Calls() {
		if call.Tier == llm.TierLite {
			lite++
		}
		assert.Equal(t, "gsk_cli_secret", call.Credential)
	}
	assert.Equal(t, 1, lite, "stop word must not reach the model")

	snap := r.metrics.GetSnapshot()
	assert.Equal(t, int64(1), snap.InterviewsStarted)
	assert.Equal(t, int64(1), snap.InterviewsCompleted)
	assert.Equal(t, int64(1), snap.AssessmentsProduced)
}

func TestRehearsal_InputEndsDuringAnswers(t *testing.T) {
	r := newRehearsal(t, scriptedClient())
	r.review = false
	var out bytes.Buffer

	require.NoError(t, r.run(context.Background(), testProfile(), strings.NewReader("Only one answer.\n"), &out))

	text := out.String()
	assert.Contains(t, text, "Question 2 of 4")
	assert.NotContains(t, text, "Question 3 of 4")
	assert.Contains(t, text, "Interviewer: "+live.OpeningLine)
	assert.NotContains(t, text, "WRITTEN ANSWER REVIEW")
	assert.Contains(t, text, "INTERVIEW RESULTS")
}

func TestRehearsal_EveryCallFails(t *testing.T) {
	r := newRehearsal(t, llmtest.Failing(llmtest.TransportFailure()))
	input := "a\nb\nc\nd\ne\nf\ng\nI like Go.\n/end\n"
	var out bytes.Buffer

	require.NoError(t, r.run(context.Background(), testProfile(), strings.NewReader(input), &out))

	text := out.String()
	assert.Contains(t, text, "Using the built-in question list")
	assert.Contains(t, text, "Interviewer: "+live.ApologyLine)
	assert.Contains(t, text, "Assessment unavailable")
}

func TestStopWordCapture(t *testing.T) {
	lines := speech.NewLineCapture(strings.NewReader("hello\n/END\n"))
	c := &stopWordCapture{inner: lines, word: StopWord}

	assert.Equal(t, "hello", readUtterance(context.Background(), c, speech.DefaultCaptureOptions()))
	assert.False(t, c.Stopped())

	assert.Equal(t, "", readUtterance(context.Background(), c, speech.DefaultCaptureOptions()))
	assert.True(t, c.Stopped())
}
