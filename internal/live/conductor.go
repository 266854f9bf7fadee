package live

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

// DefaultWindow is the number of prior turns embedded in each next-utterance prompt.
const DefaultWindow = 6

// Conductor drives the interview against the chat model and the speech collaborators.
type Conductor struct {
	client  llm.Client
	synth   speech.Synthesizer
	voice   speech.Voice
	window  int
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Options configures a Conductor. Zero values take defaults.
type Options struct {
	Synthesizer speech.Synthesizer
	Voice       speech.Voice
	Window      int
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
}

// NewConductor creates a Conductor.
func NewConductor(client llm.Client, opts Options) *Conductor {
	c := &Conductor{
		client:  client,
		synth:   opts.Synthesizer,
		voice:   opts.Voice,
		window:  opts.Window,
		logger:  logging.Module(opts.Logger, "live"),
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if c.synth == nil {
		c.synth = speech.Discard{}
	}
	if c.voice == (speech.Voice{}) {
		c.voice = speech.DefaultVoice()
	}
	if c.window <= 0 {
		c.window = DefaultWindow
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Now returns the conductor clock.
func (c *Conductor) Now() time.Time {
	return c.now()
}

// Start opens the interview with the fixed greeting. No model call is made.
func (c *Conductor) Start(iv Interview) (Interview, error) {
	next, err := iv.Start(c.now())
	if err != nil {
		return iv, err
	}
	c.metrics.IncrementInterviewsStarted()
	c.synth.Speak(OpeningLine, c.voice)
	return next, nil
}

// NextUtterance asks the model for the interviewer's reply to the newest candidate turn.
// Any failure yields ApologyLine; the interview never halts on a model error.
func (c *Conductor) NextUtterance(ctx context.Context, profile types.Profile, transcript types.Transcript) string {
	if len(transcript) == 0 || transcript[len(transcript)-1].Speaker != types.SpeakerCandidate {
		return ApologyLine
	}
	history := transcript[:len(transcript)-1]
	utterance := transcript[len(transcript)-1].Text

	prompt, err := BuildTurnPrompt(profile, history, utterance, c.window)
	if err == nil {
		var reply string
		reply, err = c.client.Complete(ctx, prompt, profile.APICredential, llm.TierLite)
		reply = strings.TrimSpace(reply)
		if err == nil && reply != "" {
			c.metrics.IncrementTurnsGenerated()
			return reply
		}
		if err == nil {
			err = &llm.MalformedResponseError{Message: "empty reply"}
		}
	}

	c.logger.Warn("next utterance failed, using apology",
		zap.Int("turns", len(transcript)),
		zap.String("reason", llm.Reason(err)),
		zap.Error(err),
	)
	c.metrics.IncrementFallback("live")
	return ApologyLine
}

// Deliver appends the reply to the interview and speaks it.
func (c *Conductor) Deliver(iv Interview, reply string) (Interview, error) {
	next, err := iv.Reply(reply, c.now())
	if err != nil {
		return iv, err
	}
	c.synth.Speak(reply, c.voice)
	return next, nil
}

// Respond generates and delivers the reply for a thinking interview.
func (c *Conductor) Respond(ctx context.Context, profile types.Profile, iv Interview) (Interview, error) {
	if iv.Phase != PhaseThinking {
		return iv, iv.phaseError("respond")
	}
	return c.Deliver(iv, c.NextUtterance(ctx, profile, iv.Transcript))
}

// Say handles a typed candidate utterance end to end.
func (c *Conductor) Say(ctx context.Context, profile types.Profile, iv Interview, text string) (Interview, error) {
	next, err := iv.Submit(text, c.now())
	if err != nil {
		return iv, err
	}
	return c.Respond(ctx, profile, next)
}

// Listen runs one capture segment: it subscribes to capture, folds updates into the
// interview until the subscription closes, then ends the capture and responds when the
// candidate said something. Capture errors leave the interview ready for a retry.
func (c *Conductor) Listen(ctx context.Context, profile types.Profile, iv Interview, capture speech.Capture, opts speech.CaptureOptions) (Interview, error) {
	next, err := iv.BeginCapture()
	if err != nil {
		return iv, err
	}
	updates, err := capture.Start(ctx, opts)
	if err != nil {
		next.Phase = PhaseSpeaking
		next.Status = (&speech.CaptureError{Code: speech.CodeAudioCapture, Message: err.Error()}).StatusMessage()
		return next, nil
	}
	defer capture.Stop()

	for u := range updates {
		next, err = next.Observe(u)
		if err != nil {
			return next, err
		}
		if u.Err != nil {
			c.logger.Info("speech capture error", zap.String("code", u.Err.Code))
			return next, nil
		}
	}
	if ctx.Err() != nil {
		return next, ctx.Err()
	}

	next, err = next.EndCapture(c.now())
	if err != nil || next.Phase != PhaseThinking {
		return next, err
	}
	return c.Respond(ctx, profile, next)
}

// End closes the interview.
func (c *Conductor) End(iv Interview) Interview {
	if iv.Phase != PhaseTerminal {
		c.metrics.IncrementInterviewsCompleted()
	}
	return iv.End(c.now())
}

// BuildTurnPrompt renders the next-utterance prompt from the profile, at most window turns
// of history preceding the utterance, and the utterance itself.
func BuildTurnPrompt(profile types.Profile, history types.Transcript, utterance string, window int) (string, error) {
	return prompts.Render(prompts.KeyNextUtterance, map[string]string{
		"JobTitle":   profile.JobTitle,
		"Name":       profile.Name,
		"Experience": string(profile.Experience),
		"Skills":     profile.Skills,
		"History":    FormatTurns(history.Last(window)),
		"Utterance":  utterance,
	})
}

// FormatTurns renders turns one per line as "Speaker: text".
func FormatTurns(turns types.Transcript) string {
	if len(turns) == 0 {
		return "(no prior conversation)"
	}
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", speakerLabel(turn.Speaker), turn.Text))
	}
	return sb.String()
}

func speakerLabel(s types.Speaker) string {
	if s == types.SpeakerInterviewer {
		return "Interviewer"
	}
	return "Candidate"
}
