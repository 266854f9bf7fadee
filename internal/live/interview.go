// Package live conducts the turn-based live interview: a pure state machine over the
// transcript plus a Conductor that talks to the chat model and the speech collaborators.
package live

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
)

// Phase is the conductor state.
type Phase string

// Interview phases.
const (
	PhaseIdle      Phase = "idle"
	PhaseSpeaking  Phase = "speaking"
	PhaseListening Phase = "listening"
	PhaseThinking  Phase = "thinking"
	PhaseTerminal  Phase = "terminal"
)

// Fixed interviewer lines.
const (
	OpeningLine = "Hello! I'm your AI interviewer. Please introduce yourself."
	ApologyLine = "I apologize, I'm having trouble processing that. Could you please repeat or rephrase your response?"
)

// Status messages shown alongside the phase.
const (
	StatusReady      = "Ready"
	StatusListening  = "Listening..."
	StatusProcessing = "Processing..."
	StatusEnded      = "Interview ended"
)

var (
	// ErrInvalidPhase is returned when a transition is not allowed from the current phase.
	ErrInvalidPhase = errors.New("invalid interview phase")
	// ErrEmptyUtterance is returned when typed input has no text.
	ErrEmptyUtterance = errors.New("utterance is empty")
)

// Interview is an immutable snapshot of the live interview. Transition methods return a new
// snapshot and leave the receiver untouched.
type Interview struct {
	Phase      Phase            `json:"phase"`
	Transcript types.Transcript `json:"transcript"`
	// Segments are the final recognition segments of the capture in progress.
	Segments []string `json:"segments,omitempty"`
	// Pending is the latest interim text. It is display-only.
	Pending   string    `json:"pending,omitempty"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// NewInterview returns an idle interview.
func NewInterview() Interview {
	return Interview{Phase: PhaseIdle, Transcript: types.Transcript{}}
}

func (iv Interview) phaseError(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidPhase, op, iv.Phase)
}

// Start emits the opening line as the first interviewer turn.
func (iv Interview) Start(now time.Time) (Interview, error) {
	if iv.Phase != PhaseIdle {
		return iv, iv.phaseError("start")
	}
	iv.Transcript = iv.Transcript.Append(types.SpeakerInterviewer, OpeningLine, now)
	iv.Phase = PhaseSpeaking
	iv.Status = StatusReady
	iv.StartedAt = now
	return iv, nil
}

// BeginCapture opens a fresh capture segment.
func (iv Interview) BeginCapture() (Interview, error) {
	if iv.Phase != PhaseSpeaking && iv.Phase != PhaseListening {
		return iv, iv.phaseError("begin capture")
	}
	iv.Phase = PhaseListening
	iv.Segments = nil
	iv.Pending = ""
	iv.Status = StatusListening
	return iv, nil
}

// Observe applies one recognition update. Interim text only changes Pending; final text is
// committed to the segment buffer; an error abandons the capture and allows a retry.
func (iv Interview) Observe(u speech.Update) (Interview, error) {
	if iv.Phase != PhaseListening {
		return iv, iv.phaseError("observe speech")
	}
	switch {
	case u.Err != nil:
		iv.Phase = PhaseSpeaking
		iv.Segments = nil
		iv.Pending = ""
		iv.Status = u.Err.StatusMessage()
	case u.Final:
		if text := strings.TrimSpace(u.Text); text != "" {
			segments := make([]string, len(iv.Segments), len(iv.Segments)+1)
			copy(segments, iv.Segments)
			iv.Segments = append(segments, text)
		}
		iv.Pending = ""
	default:
		iv.Pending = u.Text
	}
	return iv, nil
}

// Rerecord discards what has been captured so far and keeps listening.
func (iv Interview) Rerecord() (Interview, error) {
	if iv.Phase != PhaseListening {
		return iv, iv.phaseError("re-record")
	}
	iv.Segments = nil
	iv.Pending = ""
	iv.Status = StatusListening
	return iv, nil
}

// Utterance joins the committed segments.
func (iv Interview) Utterance() string {
	return strings.TrimSpace(strings.Join(iv.Segments, " "))
}

// EndCapture closes the capture. A non-empty utterance is appended as a candidate turn and
// the interview moves to thinking; otherwise it returns to speaking.
func (iv Interview) EndCapture(now time.Time) (Interview, error) {
	if iv.Phase != PhaseListening {
		return iv, iv.phaseError("end capture")
	}
	utterance := iv.Utterance()
	iv.Segments = nil
	iv.Pending = ""
	if utterance == "" {
		iv.Phase = PhaseSpeaking
		iv.Status = StatusReady
		return iv, nil
	}
	iv.Transcript = iv.Transcript.Append(types.SpeakerCandidate, utterance, now)
	iv.Phase = PhaseThinking
	iv.Status = StatusProcessing
	return iv, nil
}

// Submit commits typed text as the candidate's utterance.
func (iv Interview) Submit(text string, now time.Time) (Interview, error) {
	if iv.Phase != PhaseSpeaking && iv.Phase != PhaseListening {
		return iv, iv.phaseError("submit")
	}
	if strings.TrimSpace(text) == "" {
		return iv, ErrEmptyUtterance
	}
	iv.Phase = PhaseListening
	iv.Segments = []string{strings.TrimSpace(text)}
	iv.Pending = ""
	return iv.EndCapture(now)
}

// Reply appends the interviewer's reply and returns to speaking.
func (iv Interview) Reply(text string, now time.Time) (Interview, error) {
	if iv.Phase != PhaseThinking {
		return iv, iv.phaseError("reply")
	}
	iv.Transcript = iv.Transcript.Append(types.SpeakerInterviewer, text, now)
	iv.Phase = PhaseSpeaking
	iv.Status = StatusReady
	return iv, nil
}

// End freezes the transcript. Ending an ended interview is a no-op.
func (iv Interview) End(now time.Time) Interview {
	if iv.Phase == PhaseTerminal {
		return iv
	}
	iv.Phase = PhaseTerminal
	iv.Segments = nil
	iv.Pending = ""
	iv.Status = StatusEnded
	iv.EndedAt = now
	return iv
}

// LastCandidateUtterance returns the newest turn when it belongs to the candidate.
func (iv Interview) LastCandidateUtterance() (types.TranscriptTurn, bool) {
	if len(iv.Transcript) == 0 {
		return types.TranscriptTurn{}, false
	}
	last := iv.Transcript[len(iv.Transcript)-1]
	return last, last.Speaker == types.SpeakerCandidate
}

// QuestionsAsked counts interviewer turns.
func (iv Interview) QuestionsAsked() int {
	return iv.Transcript.Count(types.SpeakerInterviewer)
}

// Duration is the elapsed interview time, frozen once the interview ends.
func (iv Interview) Duration(now time.Time) time.Duration {
	if iv.StartedAt.IsZero() {
		return 0
	}
	if !iv.EndedAt.IsZero() {
		return iv.EndedAt.Sub(iv.StartedAt)
	}
	return now.Sub(iv.StartedAt)
}
