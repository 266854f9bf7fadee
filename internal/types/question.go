package types

// Category classifies an interview question.
type Category string

// Question categories.
const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
	CategoryProject    Category = "project"
)

// ParseCategory maps a raw category string to a known Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryTechnical, CategoryBehavioral, CategoryProject:
		return Category(s), true
	default:
		return "", false
	}
}

// Question is one interview question. IDs are 1-based positions that stay stable for the session.
type Question struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// NumberQuestions assigns 1-based IDs in order and returns a new slice.
func NumberQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.ID = i + 1
		out[i] = q
	}
	return out
}
