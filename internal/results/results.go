// Package results builds the presentation model shown once an interview is complete.
package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/types"
)

// Score rating labels.
const (
	RatingExcellent        = "Excellent"
	RatingVeryGood         = "Very Good"
	RatingGood             = "Good"
	RatingSatisfactory     = "Satisfactory"
	RatingNeedsImprovement = "Needs Improvement"
)

const noAnswerText = "No answer provided"

// barDimensions are charted individually; overall gets the doughnut.
var barDimensions = []types.Dimension{
	types.DimensionTechnical,
	types.DimensionCommunication,
	types.DimensionProblemSolving,
	types.DimensionExperience,
	types.DimensionCulturalFit,
}

// Rating maps a score to its display label.
func Rating(score int) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 80:
		return RatingVeryGood
	case score >= 70:
		return RatingGood
	case score >= 60:
		return RatingSatisfactory
	default:
		return RatingNeedsImprovement
	}
}

// ScoreCard is one dimension as displayed.
type ScoreCard struct {
	Dimension types.Dimension `json:"dimension"`
	Title     string          `json:"title"`
	Score     int             `json:"score"`
	Rating    string          `json:"rating"`
}

// Series is chart data with parallel labels and values.
type Series struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// QuestionResult pairs a written question with the answer given.
type QuestionResult struct {
	ID       int            `json:"id"`
	Text     string         `json:"text"`
	Category types.Category `json:"category"`
	Answer   string         `json:"answer"`
	Answered bool           `json:"answered"`
}

// View is everything the results surface renders.
type View struct {
	Available      bool             `json:"available"`
	Reason         string           `json:"reason,omitempty"`
	Candidate      string           `json:"candidate"`
	JobTitle       string           `json:"job_title"`
	Overall        ScoreCard        `json:"overall"`
	Scores         []ScoreCard      `json:"scores"`
	Feedback       []string         `json:"feedback"`
	Doughnut       Series           `json:"doughnut"`
	Bars           Series           `json:"bars"`
	Questions      []QuestionResult `json:"questions"`
	Review         string           `json:"review"`
	Transcript     types.Transcript `json:"transcript"`
	QuestionsAsked int              `json:"questions_asked"`
	DurationSecs   int              `json:"duration_seconds"`
	Duration       string           `json:"duration"`
}

// Input collects the finished session parts.
type Input struct {
	Profile   types.Profile
	Questions []types.Question
	Answers   types.AnswerSet
	Review    string
	Interview live.Interview
	Result    assessment.Result
	Now       time.Time
}

// Present builds the View. When the assessment is unavailable the canned scores and
// feedback are shown and Available is false.
func Present(in Input) View {
	scores := in.Result.Scores()

	cards := make([]ScoreCard, 0, len(barDimensions))
	bars := Series{Labels: make([]string, 0, len(barDimensions)), Values: make([]int, 0, len(barDimensions))}
	for _, d := range barDimensions {
		cards = append(cards, card(d, scores.Get(d)))
		bars.Labels = append(bars.Labels, d.Label())
		bars.Values = append(bars.Values, scores.Get(d))
	}

	view := View{
		Available: in.Result.Available(),
		Candidate: in.Profile.Name,
		JobTitle:  in.Profile.JobTitle,
		Overall:   card(types.DimensionOverall, scores.Overall),
		Scores:    cards,
		Feedback:  Paragraphs(in.Result.Feedback()),
		Doughnut: Series{
			Labels: []string{"Score", "Remaining"},
			Values: []int{scores.Overall, 100 - scores.Overall},
		},
		Bars:           bars,
		Questions:      questionResults(in.Questions, in.Answers),
		Review:         in.Review,
		Transcript:     in.Interview.Transcript,
		QuestionsAsked: in.Interview.QuestionsAsked(),
	}
	if view.Transcript == nil {
		view.Transcript = types.Transcript{}
	}
	if in.Result.Fallback != nil {
		view.Reason = in.Result.Fallback.Reason
	}

	elapsed := in.Interview.Duration(in.Now)
	view.DurationSecs = int(elapsed / time.Second)
	view.Duration = FormatDuration(elapsed)
	return view
}

func card(d types.Dimension, score int) ScoreCard {
	return ScoreCard{Dimension: d, Title: d.Label(), Score: score, Rating: Rating(score)}
}

func questionResults(questions []types.Question, answers types.AnswerSet) []QuestionResult {
	out := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		answer, ok := answers.Get(q.ID)
		answered := ok && strings.TrimSpace(answer) != ""
		if !answered {
			answer = noAnswerText
		}
		out = append(out, QuestionResult{
			ID:       q.ID,
			Text:     q.Text,
			Category: q.Category,
			Answer:   answer,
			Answered: answered,
		})
	}
	return out
}

// Paragraphs splits feedback on blank lines, dropping empty pieces.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// FormatDuration renders d as MM:SS, matching the interview timer.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
