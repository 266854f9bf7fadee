// Package session holds the per-candidate interview workflow: an immutable State advanced by
// pure transitions, an in-memory Store, and a Controller that serializes operations.
package session

import (
	"fmt"
	"time"

	"github.com/jonathan/interview-coach/internal/answers"
	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
)

// Stage is the workflow position. Control only moves forward, except for Reset.
type Stage string

// Workflow stages.
const (
	StageProfile   Stage = "profile"
	StageQuestions Stage = "questions"
	StageLive      Stage = "live"
	StageComplete  Stage = "complete"
)

// State is an immutable snapshot of one session. Transition methods return a new value.
type State struct {
	ID         string
	Generation int
	Stage      Stage
	Profile    *types.Profile
	Questions  questions.Result
	Collector  answers.Collector
	Answers    types.AnswerSet
	Review     string
	Interview  live.Interview
	Result     *assessment.Result
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewState returns an empty session at the profile stage.
func NewState(id string, now time.Time) State {
	return State{
		ID:        id,
		Stage:     StageProfile,
		Interview: live.NewInterview(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s State) require(stage Stage, op string) error {
	if s.Stage != stage {
		return fmt.Errorf("%w: cannot %s during %s stage", ErrWrongStage, op, s.Stage)
	}
	return nil
}

func (s State) touch(now time.Time) State {
	s.UpdatedAt = now
	return s
}

// WithProfile records the captured profile.
func (s State) WithProfile(p types.Profile, now time.Time) (State, error) {
	if err := s.require(StageProfile, "capture profile"); err != nil {
		return s, err
	}
	s.Profile = &p
	return s.touch(now), nil
}

// WithQuestions installs the question list and opens the collector.
func (s State) WithQuestions(res questions.Result, now time.Time) (State, error) {
	if err := s.require(StageProfile, "set questions"); err != nil {
		return s, err
	}
	if s.Profile == nil {
		return s, fmt.Errorf("%w: profile not captured", ErrWrongStage)
	}
	collector, err := answers.New(res.Questions)
	if err != nil {
		return s, err
	}
	s.Questions = res
	s.Collector = collector
	s.Stage = StageQuestions
	return s.touch(now), nil
}

// RecordAnswer stores text for question id.
func (s State) RecordAnswer(id int, text string, now time.Time) (State, error) {
	if err := s.require(StageQuestions, "record answer"); err != nil {
		return s, err
	}
	collector, err := s.Collector.Record(id, text)
	if err != nil {
		return s, err
	}
	s.Collector = collector
	return s.touch(now), nil
}

// Navigate moves the collector cursor.
func (s State) Navigate(d answers.Direction, now time.Time) (State, error) {
	if err := s.require(StageQuestions, "navigate"); err != nil {
		return s, err
	}
	s.Collector = s.Collector.Navigate(d)
	return s.touch(now), nil
}

// FinishAnswers finalizes the written answers with their review and opens the live stage.
func (s State) FinishAnswers(review string, now time.Time) (State, error) {
	if err := s.require(StageQuestions, "submit answers"); err != nil {
		return s, err
	}
	s.Answers = s.Collector.Finalize()
	s.Review = review
	s.Interview = live.NewInterview()
	s.Stage = StageLive
	return s.touch(now), nil
}

// WithInterview replaces the live interview snapshot.
func (s State) WithInterview(iv live.Interview, now time.Time) (State, error) {
	if err := s.require(StageLive, "update interview"); err != nil {
		return s, err
	}
	s.Interview = iv
	return s.touch(now), nil
}

// Complete records the assessment outcome. The interview must already be ended.
func (s State) Complete(result assessment.Result, now time.Time) (State, error) {
	if err := s.require(StageLive, "complete"); err != nil {
		return s, err
	}
	if s.Interview.Phase != live.PhaseTerminal {
		return s, fmt.Errorf("%w: interview has not ended", live.ErrInvalidPhase)
	}
	s.Result = &result
	s.Stage = StageComplete
	return s.touch(now), nil
}

// Reset returns a fresh session with the same ID and the next generation.
func (s State) Reset(now time.Time) State {
	next := NewState(s.ID, now)
	next.Generation = s.Generation + 1
	next.CreatedAt = s.CreatedAt
	return next
}

// Snapshot is the serializable view of a State. The API credential is never included.
type Snapshot struct {
	ID                string           `json:"id"`
	Generation        int              `json:"generation"`
	Stage             Stage            `json:"stage"`
	Busy              bool             `json:"busy"`
	Profile           *types.Profile   `json:"profile,omitempty"`
	Questions         []types.Question `json:"questions,omitempty"`
	QuestionsFallback bool             `json:"questions_fallback,omitempty"`
	Collector         *answers.View    `json:"collector,omitempty"`
	Answers           types.AnswerSet  `json:"answers,omitempty"`
	Review            string           `json:"review,omitempty"`
	Interview         *live.Interview  `json:"interview,omitempty"`
	AssessmentReady   bool             `json:"assessment_ready"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Snapshot builds the serializable view.
func (s State) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                s.ID,
		Generation:        s.Generation,
		Stage:             s.Stage,
		Profile:           s.Profile,
		Questions:         s.Questions.Questions,
		QuestionsFallback: s.Questions.Fallback,
		Answers:           s.Answers,
		Review:            s.Review,
		AssessmentReady:   s.Result != nil,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.Stage == StageQuestions {
		view := s.Collector.View()
		snap.Collector = &view
	}
	if s.Stage == StageLive || s.Stage == StageComplete {
		iv := s.Interview
		snap.Interview = &iv
	}
	return snap
}
