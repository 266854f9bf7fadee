// Package answers implements the written-answer collector: a cursor over the question list
// plus the answers recorded so far. Collector values are immutable; every operation returns
// a new value.
package answers

import (
	"errors"
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// Direction moves the cursor.
type Direction string

// Navigation directions.
const (
	Previous Direction = "previous"
	Next     Direction = "next"
)

// ErrUnknownQuestion is returned when recording an answer for an id outside the question list.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrNoQuestions is returned when a collector is built over an empty list.
var ErrNoQuestions = errors.New("no questions to answer")

// ParseDirection maps a raw string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Previous, Next:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be %q or %q", s, Previous, Next)
	}
}

// Collector is a snapshot of the written-answer stage.
type Collector struct {
	questions []types.Question
	answers   types.AnswerSet
	cursor    int
}

// New starts collecting answers for questions with the cursor on the first one.
func New(questions []types.Question) (Collector, error) {
	if len(questions) == 0 {
		return Collector{}, ErrNoQuestions
	}
	qs := make([]types.Question, len(questions))
	copy(qs, questions)
	return Collector{questions: qs, answers: types.AnswerSet{}}, nil
}

// Record stores text as the answer to id, replacing any earlier answer.
func (c Collector) Record(id int, text string) (Collector, error) {
	if !c.has(id) {
		return c, fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
	}
	c.answers = c.answers.With(id, text)
	return c, nil
}

// RecordCurrent stores text as the answer to the question under the cursor.
func (c Collector) RecordCurrent(text string) (Collector, error) {
	return c.Record(c.Current().ID, text)
}

// Navigate moves the cursor one step, clamping at both ends.
func (c Collector) Navigate(d Direction) Collector {
	switch d {
	case Previous:
		if c.cursor > 0 {
			c.cursor--
		}
	case Next:
		if c.cursor < len(c.questions)-1 {
			c.cursor++
		}
	}
	return c
}

// Finalize returns the recorded answers.
func (c Collector) Finalize() types.AnswerSet {
	return c.answers.Clone()
}

// Current returns the question under the cursor.
func (c Collector) Current() types.Question {
	if len(c.questions) == 0 {
		return types.Question{}
	}
	return c.questions[c.cursor]
}

// Cursor returns the zero-based cursor position.
func (c Collector) Cursor() int { return c.cursor }

// Len returns the number of questions.
func (c Collector) Len() int { return len(c.questions) }

// AnswerFor returns the answer recorded for id.
func (c Collector) AnswerFor(id int) (string, bool) {
	return c.answers.Get(id)
}

// HasPrevious reports whether Navigate(Previous) would move.
func (c Collector) HasPrevious() bool { return c.cursor > 0 }

// HasNext reports whether Navigate(Next) would move.
func (c Collector) HasNext() bool { return c.cursor < len(c.questions)-1 }

// IsLast reports whether the cursor is on the final question, where submission is offered.
func (c Collector) IsLast() bool { return !c.HasNext() }

// Questions returns a copy of the question list.
func (c Collector) Questions() []types.Question {
	out := make([]types.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

func (c Collector) has(id int) bool {
	for _, q := range c.questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// View is the serializable state of the collector.
type View struct {
	Cursor      int              `json:"cursor"`
	Total       int              `json:"total"`
	Current     types.Question   `json:"current"`
	Answer      string           `json:"answer"`
	Answered    int              `json:"answered"`
	HasPrevious bool             `json:"has_previous"`
	HasNext     bool             `json:"has_next"`
	IsLast      bool             `json:"is_last"`
	Questions   []types.Question `json:"questions"`
}

// View returns the state shown to the candidate.
func (c Collector) View() View {
	current := c.Current()
	answer, _ := c.AnswerFor(current.ID)
	return View{
		Cursor:      c.cursor,
		Total:       len(c.questions),
		Current:     current,
		Answer:      answer,
		Answered:    len(c.answers),
		HasPrevious: c.HasPrevious(),
		HasNext:     c.HasNext(),
		IsLast:      c.IsLast(),
		Questions:   c.Questions(),
	}
}
