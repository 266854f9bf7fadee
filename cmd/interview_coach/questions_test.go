package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteQuestions_Box(t *testing.T) {
	c := testComponents(t, scriptedClient())
	var out bytes.Buffer

	require.NoError(t, writeQuestions(context.Background(), c.generator, testProfile(), &out, false))

	assert.Contains(t, out.String(), "INTERVIEW QUESTIONS (4)")
	assert.Contains(t, out.String(), "How do you bound goroutine fan-out?")
}

func TestWriteQuestions_JSONFallback(t *testing.T) {
	c := testComponents(t, llmtest.Failing(llmtest.TransportFailure()))
	var out bytes.Buffer

	require.NoError(t, writeQuestions(context.Background(), c.generator, testProfile(), &out, true))

	var res questions.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.True(t, res.Fallback)
	assert.Equal(t, questions.Builtin(), res.Questions)
}
