package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name     string
		open     byte
		input    string
		expected string
	}{
		{name: "simple object", open: '{', input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "nested objects", open: '{', input: `{"scores": {"overall": 86}}`, expected: `{"scores": {"overall": 86}}`},
		{name: "object with trailing text", open: '{', input: `{"key": "value"} and more`, expected: `{"key": "value"}`},
		{name: "string with braces inside", open: '{', input: `{"template": "Hello {name}!"}`, expected: `{"template": "Hello {name}!"}`},
		{name: "unterminated object", open: '{', input: `{"key": "value"`, expected: ""},
		{name: "not starting with brace", open: '{', input: "not json", expected: ""},
		{name: "empty input", open: '{', input: "", expected: ""},
		{name: "array of objects", open: '[', input: `[{"id": 1}, {"id": 2}]`, expected: `[{"id": 1}, {"id": 2}]`},
		{name: "string with bracket inside", open: '[', input: `["a]b", "c"] tail`, expected: `["a]b", "c"]`},
		{name: "not starting with bracket", open: '[', input: "not array", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closer := byte('}')
			if tt.open == '[' {
				closer = ']'
			}
			assert.Equal(t, tt.expected, extractBalanced(tt.input, tt.open, closer))
		})
	}
}

func TestExtractObject_WrappedInProse(t *testing.T) {
	ex := ExtractObject("Here you go:\n{\"scores\": {\"overall\": 90}, \"feedback\": \"Good\"}\nThanks")
	require.True(t, ex.OK())

	var payload struct {
		Scores   map[string]int `json:"scores"`
		Feedback string         `json:"feedback"`
	}
	require.NoError(t, ex.Decode(&payload))
	assert.Equal(t, 90, payload.Scores["overall"])
	assert.Equal(t, "Good", payload.Feedback)
}

func TestExtractObject_SkipsUnbalancedCandidates(t *testing.T) {
	ex := ExtractObject("Use {name} as a placeholder. {\"ok\": true}")
	require.True(t, ex.OK())
	assert.Equal(t, `{"ok": true}`, ex.JSON)
}

func TestExtractObject_Failure(t *testing.T) {
	ex := ExtractObject("Sorry, I can't do that.")
	assert.False(t, ex.OK())

	var me *MalformedResponseError
	assert.True(t, errors.As(ex.Err, &me))

	var target map[string]any
	assert.Error(t, ex.Decode(&target))
}

func TestArrayCandidates(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "code fence",
			input:    "```json\n[{\"question\": \"Q1\", \"type\": \"technical\"}]\n```",
			expected: []string{`[{"question": "Q1", "type": "technical"}]`},
		},
		{
			name:     "count in prose before payload",
			input:    "Here are [2] questions: [{\"question\": \"Q1\"}, {\"question\": \"Q2\"}] Good luck!",
			expected: []string{`[2]`, `[{"question": "Q1"}, {"question": "Q2"}]`},
		},
		{
			name:     "nested arrays are not separate candidates",
			input:    `[["a"], ["b"]]`,
			expected: []string{`[["a"], ["b"]]`},
		},
		{
			name:     "invalid brackets skipped",
			input:    "See [note] then [1, 2]",
			expected: []string{`[1, 2]`},
		},
		{
			name:     "none",
			input:    "No list here.",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArrayCandidates(tt.input))
		})
	}
}

func TestExtraction_DecodeTypeMismatch(t *testing.T) {
	ex := Extraction{JSON: `["a", "b"]`}

	var wrong map[string]string
	err := ex.Decode(&wrong)
	var me *MalformedResponseError
	assert.True(t, errors.As(err, &me))
}
