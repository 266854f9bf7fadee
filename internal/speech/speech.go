// Package speech defines the speech capture and speech output collaborators used by the live
// interview, plus console- and writer-backed implementations.
package speech

import (
	"context"
	"fmt"
	"time"
)

// Update is one incremental transcript event from a capture subscription. Interim updates
// carry display-only text; Final updates carry a committed segment.
type Update struct {
	Text  string        `json:"text"`
	Final bool          `json:"final"`
	Err   *CaptureError `json:"error,omitempty"`
	At    time.Time     `json:"at"`
}

// CaptureOptions configures a capture subscription.
type CaptureOptions struct {
	Continuous bool   `json:"continuous"`
	Language   string `json:"language"`
}

// DefaultCaptureOptions captures one utterance in US English.
func DefaultCaptureOptions() CaptureOptions {
	return CaptureOptions{Continuous: false, Language: "en-US"}
}

// Capture is a cancellable subscription to speech-to-text updates. The returned channel is
// closed when capture stops, the context ends, or the source is exhausted.
type Capture interface {
	Start(ctx context.Context, opts CaptureOptions) (<-chan Update, error)
	Stop()
}

// Voice holds speech synthesis settings.
type Voice struct {
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// DefaultVoice matches the interviewer voice of the browser client.
func DefaultVoice() Voice {
	return Voice{Rate: 0.97, Pitch: 1, Volume: 0.9}
}

// Synthesizer speaks text. Speak is fire-and-forget.
type Synthesizer interface {
	Speak(text string, voice Voice)
}

// Error codes reported by speech recognition engines.
const (
	CodeNoSpeech     = "no-speech"
	CodeAudioCapture = "audio-capture"
	CodeNotAllowed   = "not-allowed"
	CodeNetwork      = "network"
	CodeAborted      = "aborted"
	CodeUnsupported  = "unsupported"
)

// CaptureError reports a speech engine failure. It is never fatal to the interview.
type CaptureError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *CaptureError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("speech capture error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("speech capture error %s", e.Code)
}

// StatusMessage is the text shown to the candidate for this error.
func (e *CaptureError) StatusMessage() string {
	switch e.Code {
	case CodeNoSpeech:
		return "No speech detected. Please try again."
	case CodeAudioCapture:
		return "No microphone was found. Check your audio input and try again."
	case CodeNotAllowed:
		return "Microphone access was denied. Allow access or type your answer."
	case CodeNetwork:
		return "Speech recognition lost its network connection. Please try again."
	case CodeAborted:
		return "Recording was cancelled."
	case CodeUnsupported:
		return "Speech recognition is not supported here. Please type your answer."
	default:
		return "Speech recognition error: " + e.Code
	}
}
