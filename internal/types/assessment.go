package types

import "fmt"

// Dimension names one scored axis of an assessment.
type Dimension string

// The fixed six assessment dimensions. Wire names match the scoring payload.
const (
	DimensionTechnical      Dimension = "technical"
	DimensionCommunication  Dimension = "communication"
	DimensionProblemSolving Dimension = "problemSolving"
	DimensionExperience     Dimension = "experience"
	DimensionCulturalFit    Dimension = "culturalFit"
	DimensionOverall        Dimension = "overall"
)

// Dimensions lists all six dimensions in display order.
var Dimensions = []Dimension{
	DimensionTechnical,
	DimensionCommunication,
	DimensionProblemSolving,
	DimensionExperience,
	DimensionCulturalFit,
	DimensionOverall,
}

// Label returns the display label for the dimension.
func (d Dimension) Label() string {
	switch d {
	case DimensionTechnical:
		return "Technical Skills"
	case DimensionCommunication:
		return "Communication"
	case DimensionProblemSolving:
		return "Problem Solving"
	case DimensionExperience:
		return "Experience"
	case DimensionCulturalFit:
		return "Cultural Fit"
	case DimensionOverall:
		return "Overall"
	default:
		return string(d)
	}
}

// Scores holds one integer in [0,100] per dimension.
type Scores struct {
	Technical      int `json:"technical"`
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problemSolving"`
	Experience     int `json:"experience"`
	CulturalFit    int `json:"culturalFit"`
	Overall        int `json:"overall"`
}

// Get returns the score for d.
func (s Scores) Get(d Dimension) int {
	switch d {
	case DimensionTechnical:
		return s.Technical
	case DimensionCommunication:
		return s.Communication
	case DimensionProblemSolving:
		return s.ProblemSolving
	case DimensionExperience:
		return s.Experience
	case DimensionCulturalFit:
		return s.CulturalFit
	case DimensionOverall:
		return s.Overall
	default:
		return 0
	}
}

// Validate rejects any score outside [0,100].
func (s Scores) Validate() error {
	for _, d := range Dimensions {
		if v := s.Get(d); v < 0 || v > 100 {
			return fmt.Errorf("score %s out of range: %d", d, v)
		}
	}
	return nil
}

// Assessment is the scored evaluation of a completed interview. It is immutable once built.
type Assessment struct {
	Scores   Scores `json:"scores"`
	Feedback string `json:"feedback"`
}
