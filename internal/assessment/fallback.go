package assessment

import "github.com/jonathan/interview-coach/internal/types"

// FallbackScores is shown when no real assessment could be produced.
var FallbackScores = types.Scores{
	Technical:      85,
	Communication:  92,
	ProblemSolving: 78,
	Experience:     88,
	CulturalFit:    85,
	Overall:        86,
}

// FallbackFeedback is the generic narrative paired with FallbackScores.
const FallbackFeedback = "Thank you for completing the interview! Based on your responses, you demonstrate strong technical knowledge and excellent communication skills. Your experience aligns well with the role requirements.\n\n" +
	"Strengths: Clear communication, solid technical foundation, relevant experience.\n\n" +
	"Areas for improvement: Continue developing problem-solving methodologies and consider gaining experience with advanced technologies."

// ReviewUnavailable is the written-answer review text when the review call fails.
const ReviewUnavailable = "Not available"

// Fallback is the canned result used when assessment is unavailable.
type Fallback struct {
	Scores   types.Scores `json:"scores"`
	Feedback string       `json:"feedback"`
	Reason   string       `json:"reason"`
}

func newFallback(reason string) *Fallback {
	return &Fallback{Scores: FallbackScores, Feedback: FallbackFeedback, Reason: reason}
}

// Result is either a real Assessment or an explicit unavailable marker carrying the canned
// fallback. Exactly one of the two fields is set.
type Result struct {
	Assessment *types.Assessment `json:"assessment,omitempty"`
	Fallback   *Fallback         `json:"fallback,omitempty"`
}

// Unavailable builds a Result that carries only the fallback.
func Unavailable(reason string) Result {
	return Result{Fallback: newFallback(reason)}
}

// Available reports whether a real assessment was produced.
func (r Result) Available() bool {
	return r.Assessment != nil
}

// Scores returns the scores to display: real ones when available, canned otherwise.
func (r Result) Scores() types.Scores {
	if r.Assessment != nil {
		return r.Assessment.Scores
	}
	if r.Fallback != nil {
		return r.Fallback.Scores
	}
	return FallbackScores
}

// Feedback returns the narrative to display.
func (r Result) Feedback() string {
	if r.Assessment != nil {
		return r.Assessment.Feedback
	}
	if r.Fallback != nil {
		return r.Fallback.Feedback
	}
	return FallbackFeedback
}
