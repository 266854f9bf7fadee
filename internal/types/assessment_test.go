//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScores_Validate(t *testing.T) {
	ok := Scores{Technical: 0, Communication: 100, ProblemSolving: 50, Experience: 70, CulturalFit: 80, Overall: 60}
	assert.NoError(t, ok.Validate())

	high := ok
	high.Technical = 150
	assert.Error(t, high.Validate())

	low := ok
	low.Overall = -1
	assert.Error(t, low.Validate())
}

func TestScores_GetCoversEveryDimension(t *testing.T) {
	s := Scores{Technical: 1, Communication: 2, ProblemSolving: 3, Experience: 4, CulturalFit: 5, Overall: 6}
	for i, d := range Dimensions {
		assert.Equal(t, i+1, s.Get(d), d)
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("behavioral")
	assert.True(t, ok)
	assert.Equal(t, CategoryBehavioral, c)

	_, ok = ParseCategory("trivia")
	assert.False(t, ok)
}
