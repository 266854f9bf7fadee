package questions

import (
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/types"
)

// builtinQuestions is used whenever generation fails. It spans all three categories.
var builtinQuestions = []types.Question{
	{Text: "Explain the difference between a process and a thread, and when you would choose each.", Category: types.CategoryTechnical},
	{Text: "How would you optimize a slow-performing web application?", Category: types.CategoryTechnical},
	{Text: "Describe a challenging project you worked on and how you overcame obstacles.", Category: types.CategoryProject},
	{Text: "What is your approach to debugging complex issues?", Category: types.CategoryTechnical},
	{Text: "How do you stay updated with the latest technology trends?", Category: types.CategoryBehavioral},
	{Text: "Explain the concept of RESTful APIs and their best practices.", Category: types.CategoryTechnical},
	{Text: "How would you handle a situation where you disagree with a team member's technical approach?", Category: types.CategoryBehavioral},
}

// Builtin returns a fresh copy of the built-in fallback list with IDs assigned.
func Builtin() []types.Question {
	return types.NumberQuestions(builtinQuestions)
}

// FromConfig converts a configured fallback bank. It returns nil when the bank is empty
// or contains an unknown category.
func FromConfig(bank []config.FallbackQuestion) []types.Question {
	if len(bank) == 0 {
		return nil
	}
	out := make([]types.Question, 0, len(bank))
	for _, q := range bank {
		category, ok := types.ParseCategory(q.Type)
		if !ok {
			return nil
		}
		out = append(out, types.Question{Text: q.Question, Category: category})
	}
	return types.NumberQuestions(out)
}
