package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/llm/llmtest"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() types.Profile {
	return types.Profile{
		Name:          "Ada",
		Email:         "ada@example.com",
		JobTitle:      "Backend Engineer",
		Experience:    types.Experience4To6,
		Skills:        "Go, Postgres",
		APICredential: "gsk_test",
	}
}

func generatedJSON(n int) string {
	kinds := []string{"technical", "behavioral", "project"}
	items := make([]map[string]string, n)
	for i := range items {
		items[i] = map[string]string{"question": fmt.Sprintf("Question %d?", i+1), "type": kinds[i%3]}
	}
	data, _ := json.Marshal(items)
	return string(data)
}

func assertWellFormed(t *testing.T, qs []types.Question) {
	t.Helper()
	require.GreaterOrEqual(t, len(qs), MinUsable)
	seen := map[int]bool{}
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
		assert.False(t, seen[q.ID])
		seen[q.ID] = true
		assert.NotEmpty(t, q.Text)
		_, ok := types.ParseCategory(string(q.Category))
		assert.True(t, ok, "unknown category %q", q.Category)
	}
}

func TestGenerate_Success(t *testing.T) {
	client := llmtest.Replying("Here are your questions:\n" + generatedJSON(7) + "\nGood luck!")
	m := metrics.NewMetrics()
	g := NewGenerator(client, DefaultCount, nil, nil, m)

	result := g.Generate(context.Background(), testProfile())

	assert.False(t, result.Fallback)
	require.Len(t, result.Questions, 7)
	assertWellFormed(t, result.Questions)
	assert.Equal(t, "Question 1?", result.Questions[0].Text)
	assert.Equal(t, types.CategoryBehavioral, result.Questions[1].Category)

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierStandard, calls[0].Tier)
	assert.Equal(t, "gsk_test", calls[0].Credential)
	assert.Contains(t, calls[0].Prompt, "Backend Engineer")
	assert.Contains(t, calls[0].Prompt, "4-6")
	assert.Contains(t, calls[0].Prompt, "Go, Postgres")
	assert.Empty(t, m.GetSnapshot().Fallbacks)
}

func TestGenerate_TruncatesToCount(t *testing.T) {
	g := NewGenerator(llmtest.Replying(generatedJSON(10)), DefaultCount, nil, nil, nil)

	result := g.Generate(context.Background(), testProfile())

	assert.False(t, result.Fallback)
	assert.Len(t, result.Questions, 7)
}

func TestParse_SkipsBracketedProse(t *testing.T) {
	raw := "Here are [7] questions, see [the list] below: " + generatedJSON(7)

	qs, err := Parse(raw, DefaultCount)

	require.NoError(t, err)
	require.Len(t, qs, 7)
	assert.Equal(t, "Question 1?", qs[0].Text)
}

func TestParse_NoSchemaValidArray(t *testing.T) {
	_, err := Parse(`Scores: [7, 8] and ["a", "b"]`, DefaultCount)

	var me *llm.MalformedResponseError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Message, "schema")
}

func TestGenerate_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		client *llmtest.MockClient
		reason string
	}{
		{name: "transport error", client: llmtest.Failing(llmtest.TransportFailure()), reason: "transport"},
		{name: "timeout", client: llmtest.Failing(&llm.TransportError{Message: "request failed", Cause: context.DeadlineExceeded}), reason: "transport"},
		{name: "prose only", client: llmtest.Replying("I'm sorry, I can't help with that."), reason: "malformed"},
		{name: "missing type field", client: llmtest.Replying(`[{"question":"a"},{"question":"b"},{"question":"c"},{"question":"d"}]`), reason: "malformed"},
		{name: "unknown category", client: llmtest.Replying(`[{"question":"a","type":"technical"},{"question":"b","type":"technical"},{"question":"c","type":"technical"},{"question":"d","type":"riddle"}]`), reason: "malformed"},
		{name: "blank question", client: llmtest.Replying(`[{"question":" ","type":"technical"},{"question":"b","type":"technical"},{"question":"c","type":"technical"},{"question":"d","type":"technical"}]`), reason: "malformed"},
		{name: "too few", client: llmtest.Replying(generatedJSON(3)), reason: "too_few"},
		{name: "object instead of array", client: llmtest.Replying(`{"question":"a","type":"technical"}`), reason: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics()
			g := NewGenerator(tt.client, DefaultCount, nil, nil, m)

			result := g.Generate(context.Background(), testProfile())

			assert.True(t, result.Fallback)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, Builtin(), result.Questions)
			assertWellFormed(t, result.Questions)
			assert.Equal(t, int64(1), m.GetSnapshot().Fallbacks["questions"])
			assert.Len(t, tt.client.Calls(), 1, "generator must not retry")
		})
	}
}

func TestBuiltin_SpansAllCategories(t *testing.T) {
	qs := Builtin()
	require.Len(t, qs, DefaultCount)

	categories := map[types.Category]bool{}
	for _, q := range qs {
		categories[q.Category] = true
	}
	assert.Len(t, categories, 3)
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	qs := Builtin()
	qs[0].Text = "changed"
	assert.NotEqual(t, "changed", Builtin()[0].Text)
}

func TestFromConfig(t *testing.T) {
	bank := []config.FallbackQuestion{
		{Question: "A?", Type: "technical"},
		{Question: "B?", Type: "behavioral"},
		{Question: "C?", Type: "project"},
		{Question: "D?", Type: "technical"},
	}
	qs := FromConfig(bank)
	require.Len(t, qs, 4)
	assert.Equal(t, 4, qs[3].ID)

	assert.Nil(t, FromConfig(nil))
	assert.Nil(t, FromConfig([]config.FallbackQuestion{{Question: "x", Type: "riddle"}}))
}

func TestGenerate_CustomFallback(t *testing.T) {
	custom := FromConfig([]config.FallbackQuestion{
		{Question: "A?", Type: "technical"},
		{Question: "B?", Type: "behavioral"},
		{Question: "C?", Type: "project"},
		{Question: "D?", Type: "technical"},
	})
	g := NewGenerator(llmtest.Failing(llmtest.TransportFailure()), DefaultCount, custom, nil, nil)

	result := g.Generate(context.Background(), testProfile())

	assert.True(t, result.Fallback)
	assert.Equal(t, custom, result.Questions)
}

func TestBuildPrompt_NoResume(t *testing.T) {
	prompt, err := BuildPrompt(testProfile(), 7)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Generate 7 interview questions")
	assert.Contains(t, prompt, "Not provided")
	assert.Contains(t, prompt, "Mid Level")
}
