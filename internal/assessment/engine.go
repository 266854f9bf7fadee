// Package assessment turns a finished session into a scored evaluation.
package assessment

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

const noAnswer = "No answer provided"

// Input is everything the evaluation prompt is built from.
type Input struct {
	Profile    types.Profile
	Questions  []types.Question
	Answers    types.AnswerSet
	Review     string
	Transcript types.Transcript
}

// Engine requests and validates assessments.
type Engine struct {
	client  llm.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an Engine.
func NewEngine(client llm.Client, logger *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		client:  client,
		logger:  logging.Module(logger, "assessment"),
		metrics: m,
	}
}

// Assess evaluates the session. Any transport, extraction or validation failure yields an
// unavailable Result; scores are never clamped or coerced.
func (e *Engine) Assess(ctx context.Context, in Input) Result {
	assessment, err := e.assess(ctx, in)
	if err != nil {
		reason := llm.Reason(err)
		e.logger.Warn("assessment unavailable, using fallback",
			zap.String("job_title", in.Profile.JobTitle),
			zap.String("reason", reason),
			zap.Error(err),
		)
		e.metrics.IncrementAssessment(false)
		e.metrics.IncrementFallback("assessment")
		return Unavailable(reason)
	}

	e.logger.Info("assessment produced",
		zap.String("job_title", in.Profile.JobTitle),
		zap.Int("overall", assessment.Scores.Overall),
	)
	e.metrics.IncrementAssessment(true)
	return Result{Assessment: assessment}
}

func (e *Engine) assess(ctx context.Context, in Input) (*types.Assessment, error) {
	prompt, err := BuildPrompt(in)
	if err != nil {
		return nil, err
	}
	raw, err := e.client.Complete(ctx, prompt, in.Profile.APICredential, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// ReviewWrittenAnswers asks for a short narrative on the written answers. It returns
// ReviewUnavailable on any failure.
func (e *Engine) ReviewWrittenAnswers(ctx context.Context, profile types.Profile, questions []types.Question, answers types.AnswerSet) string {
	prompt, err := prompts.Render(prompts.KeyReviewWrittenAnswers, map[string]string{
		"JobTitle": profile.JobTitle,
		"QA":       FormatAnswers(questions, answers),
	})
	if err != nil {
		e.logger.Error("failed to render review prompt", zap.Error(err))
		return ReviewUnavailable
	}

	review, err := e.client.Complete(ctx, prompt, profile.APICredential, llm.TierStandard)
	review = strings.TrimSpace(review)
	if err != nil || review == "" {
		reason := llm.Reason(err)
		if reason == "" {
			reason = "empty"
		}
		e.logger.Warn("written answer review unavailable",
			zap.String("reason", reason),
			zap.Error(err),
		)
		e.metrics.IncrementFallback("review")
		return ReviewUnavailable
	}
	return review
}

// BuildPrompt renders the evaluation prompt with the full written Q/A and the full transcript.
func BuildPrompt(in Input) (string, error) {
	review := strings.TrimSpace(in.Review)
	if review == "" {
		review = ReviewUnavailable
	}
	transcript := "(the live interview was not held)"
	if len(in.Transcript) > 0 {
		transcript = live.FormatTurns(in.Transcript)
	}
	return prompts.Render(prompts.KeyAssessInterview, map[string]string{
		"JobTitle":   in.Profile.JobTitle,
		"Experience": string(in.Profile.Experience),
		"Skills":     in.Profile.Skills,
		"QA":         FormatAnswers(in.Questions, in.Answers),
		"Review":     review,
		"Transcript": transcript,
	})
}

// FormatAnswers renders each question with its answer as a Q:/A: pair.
func FormatAnswers(questions []types.Question, answers types.AnswerSet) string {
	blocks := make([]string, 0, len(questions))
	for _, q := range questions {
		answer, ok := answers.Get(q.ID)
		if !ok || strings.TrimSpace(answer) == "" {
			answer = noAnswer
		}
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", q.Text, answer))
	}
	return strings.Join(blocks, "\n\n")
}

type payload struct {
	Scores   map[string]float64 `json:"scores"`
	Feedback string             `json:"feedback"`
}

// Parse extracts the first JSON object from raw and validates it strictly: all six scores
// present, integral, in [0,100], no extra dimensions, and non-blank feedback.
func Parse(raw string) (*types.Assessment, error) {
	extraction := llm.ExtractObject(raw)
	if !extraction.OK() {
		return nil, extraction.Err
	}
	if err := schemas.Validate(schemas.Assessment, extraction.JSON); err != nil {
		return nil, &llm.MalformedResponseError{Message: "assessment failed schema validation", Cause: err}
	}

	var p payload
	if err := extraction.Decode(&p); err != nil {
		return nil, err
	}

	score := func(d types.Dimension) int { return int(p.Scores[string(d)]) }
	scores := types.Scores{
		Technical:      score(types.DimensionTechnical),
		Communication:  score(types.DimensionCommunication),
		ProblemSolving: score(types.DimensionProblemSolving),
		Experience:     score(types.DimensionExperience),
		CulturalFit:    score(types.DimensionCulturalFit),
		Overall:        score(types.DimensionOverall),
	}
	if err := scores.Validate(); err != nil {
		return nil, &llm.MalformedResponseError{Message: "assessment scores invalid", Cause: err}
	}

	feedback := strings.TrimSpace(p.Feedback)
	if feedback == "" {
		return nil, &llm.MalformedResponseError{Message: "assessment feedback is empty"}
	}
	return &types.Assessment{Scores: scores, Feedback: feedback}, nil
}
