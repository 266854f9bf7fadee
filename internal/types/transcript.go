package types

import "time"

// Speaker identifies who produced a transcript turn.
type Speaker string

// Speakers in a live interview.
const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// TranscriptTurn is one utterance in the live interview.
type TranscriptTurn struct {
	Seq     int       `json:"seq"`
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Transcript is the append-only ordered record of a live interview. Seq values strictly increase.
type Transcript []TranscriptTurn

// Append returns a new transcript with one more turn. The receiver is left untouched.
func (t Transcript) Append(speaker Speaker, text string, at time.Time) Transcript {
	seq := 1
	if len(t) > 0 {
		seq = t[len(t)-1].Seq + 1
	}
	out := make(Transcript, len(t), len(t)+1)
	copy(out, t)
	return append(out, TranscriptTurn{Seq: seq, Speaker: speaker, Text: text, At: at})
}

// Last returns at most the final n turns.
func (t Transcript) Last(n int) Transcript {
	if n <= 0 {
		return Transcript{}
	}
	if len(t) <= n {
		return t
	}
	return t[len(t)-n:]
}

// Count returns how many turns the given speaker produced.
func (t Transcript) Count(speaker Speaker) int {
	n := 0
	for _, turn := range t {
		if turn.Speaker == speaker {
			n++
		}
	}
	return n
}
