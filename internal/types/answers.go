package types

// AnswerSet maps question IDs to the candidate's written answer. A missing key means the
// question was never answered; an empty string is a valid answer.
type AnswerSet map[int]string

// With returns a copy of the set with id set to text.
func (a AnswerSet) With(id int, text string) AnswerSet {
	out := make(AnswerSet, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[id] = text
	return out
}

// Get returns the answer for id and whether one was recorded.
func (a AnswerSet) Get(id int) (string, bool) {
	text, ok := a[id]
	return text, ok
}

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
