// Package questions generates the interview question list for a candidate profile.
package questions

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultCount is the number of questions requested and returned.
	DefaultCount = 7
	// MinUsable is the fewest generated questions accepted before falling back.
	MinUsable = 4
)

// ErrTooFewQuestions is reported when the model returns fewer than MinUsable entries.
var ErrTooFewQuestions = errors.New("too few questions in response")

// Result is the outcome of one generation attempt.
type Result struct {
	Questions []types.Question `json:"questions"`
	// Fallback is true when Questions is the built-in list.
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Generator produces interview questions, preferring model output and falling back to a
// fixed list on any failure. Generation is all-or-nothing.
type Generator struct {
	client   llm.Client
	count    int
	fallback []types.Question
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewGenerator creates a Generator. count <= 0 means DefaultCount; an empty fallback means
// the built-in list.
func NewGenerator(client llm.Client, count int, fallback []types.Question, logger *zap.Logger, m *metrics.Metrics) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	if len(fallback) == 0 {
		fallback = Builtin()
	}
	return &Generator{
		client:   client,
		count:    count,
		fallback: fallback,
		logger:   logging.Module(logger, "questions"),
		metrics:  m,
	}
}

type generatedQuestion struct {
	Question string `json:"question"`
	Type     string `json:"type"`
}

// Generate returns the questions for profile. It never fails: errors select the fallback list.
func (g *Generator) Generate(ctx context.Context, profile types.Profile) Result {
	questions, err := g.generate(ctx, profile)
	if err != nil {
		reason := llm.Reason(err)
		if errors.Is(err, ErrTooFewQuestions) {
			reason = "too_few"
		}
		g.logger.Warn("question generation failed, using fallback list",
			zap.String("job_title", profile.JobTitle),
			zap.String("reason", reason),
			zap.Error(err),
		)
		g.metrics.IncrementFallback("questions")
		return Result{Questions: g.Fallback(), Fallback: true, Reason: reason}
	}

	g.logger.Info("questions generated",
		zap.String("job_title", profile.JobTitle),
		zap.Int("count", len(questions)),
	)
	return Result{Questions: questions}
}

// Fallback returns a copy of the fallback list.
func (g *Generator) Fallback() []types.Question {
	out := make([]types.Question, len(g.fallback))
	copy(out, g.fallback)
	return out
}

func (g *Generator) generate(ctx context.Context, profile types.Profile) ([]types.Question, error) {
	prompt, err := BuildPrompt(profile, g.count)
	if err != nil {
		return nil, err
	}

	raw, err := g.client.Complete(ctx, prompt, profile.APICredential, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	return Parse(raw, g.count)
}

// BuildPrompt renders the question generation prompt.
func BuildPrompt(profile types.Profile, count int) (string, error) {
	resume := profile.ResumeSummary
	if resume == "" {
		resume = "Not provided"
	}
	return prompts.Render(prompts.KeyGenerateQuestions, map[string]string{
		"Count":         strconv.Itoa(count),
		"JobTitle":      profile.JobTitle,
		"Experience":    string(profile.Experience),
		"Level":         profile.Experience.Label(),
		"Skills":        profile.Skills,
		"ResumeSummary": resume,
	})
}

// Parse extracts and validates a generated question list from raw model text. The first
// array in raw that satisfies the questions schema is used, so bracketed prose ahead of the
// payload is skipped. Any invalid entry rejects the whole response. Lists longer than count
// are truncated.
func Parse(raw string, count int) ([]types.Question, error) {
	candidates := llm.ArrayCandidates(raw)
	if len(candidates) == 0 {
		return nil, &llm.MalformedResponseError{Message: "no JSON array found in response"}
	}

	payload := ""
	var schemaErr error
	for _, candidate := range candidates {
		if err := schemas.Validate(schemas.Questions, candidate); err != nil {
			if schemaErr == nil {
				schemaErr = err
			}
			continue
		}
		payload = candidate
		break
	}
	if payload == "" {
		return nil, &llm.MalformedResponseError{Message: "questions failed schema validation", Cause: schemaErr}
	}
	extraction := llm.Extraction{JSON: payload}

	var items []generatedQuestion
	if err := extraction.Decode(&items); err != nil {
		return nil, err
	}
	if len(items) < MinUsable {
		return nil, &llm.MalformedResponseError{Message: "response rejected", Cause: ErrTooFewQuestions}
	}
	if len(items) > count {
		items = items[:count]
	}

	out := make([]types.Question, 0, len(items))
	for _, item := range items {
		category, ok := types.ParseCategory(item.Type)
		text := strings.TrimSpace(item.Question)
		if !ok || text == "" {
			return nil, &llm.MalformedResponseError{Message: "question entry is incomplete"}
		}
		out = append(out, types.Question{Text: text, Category: category})
	}
	return types.NumberQuestions(out), nil
}
