package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonathan/interview-coach/internal/answers"
	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/results"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

// StopWord ends the live interview when typed on its own line.
const StopWord = "/end"

var rehearseCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Run a full mock interview in the terminal",
	Long: `Runs the whole interview in the terminal: questions are generated for the profile and
answered one line each, then the live interview reads each line as a spoken utterance until
` + StopWord + ` or end of input. The assessment and results are printed at the end.`,
	RunE: runRehearse,
}

var rehearseProfile profileFlags

func init() {
	rehearseProfile.register(rehearseCmd)
	rootCmd.AddCommand(rehearseCmd)
}

func runRehearse(cmd *cobra.Command, _ []string) error {
	profile, err := rehearseProfile.profile(os.Getenv)
	if err != nil {
		return err
	}
	cfg, c, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = c.client.Close() }()

	r := &rehearsal{
		components: c,
		window:     cfg.HistoryWindow,
		voice:      speech.Voice{Rate: cfg.Voice.Rate, Pitch: cfg.Voice.Pitch, Volume: cfg.Voice.Volume},
		capture:    speech.CaptureOptions{Language: cfg.SpeechLanguage},
		review:     cfg.ReviewEnabled(),
		now:        time.Now,
	}
	return r.run(cmd.Context(), profile, cmd.InOrStdin(), cmd.OutOrStdout())
}

// rehearsal runs one terminal interview end to end.
type rehearsal struct {
	components
	window  int
	voice   speech.Voice
	capture speech.CaptureOptions
	review  bool
	now     func() time.Time
}

func (r *rehearsal) run(ctx context.Context, profile types.Profile, in io.Reader, out io.Writer) error {
	printer := observability.NewPrinter(out)
	lines := speech.NewLineCapture(in)

	printer.PrintProfile(profile)
	generated := r.generator.Generate(ctx, profile)
	printer.PrintQuestions(generated)

	collector, err := r.collectAnswers(ctx, generated.Questions, lines, out)
	if err != nil {
		return err
	}
	written := collector.Finalize()

	review := ""
	if r.review {
		fmt.Fprintln(out, "\nReviewing your written answers...")
		review = r.engine.ReviewWrittenAnswers(ctx, profile, generated.Questions, written)
	}

	iv, err := r.interview(ctx, profile, lines, out)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nAssessing the interview...")
	result := r.engine.Assess(ctx, assessment.Input{
		Profile:    profile,
		Questions:  generated.Questions,
		Answers:    written,
		Review:     review,
		Transcript: iv.Transcript,
	})

	printer.PrintTranscript(iv.Transcript)
	printer.PrintResults(results.Present(results.Input{
		Profile:   profile,
		Questions: generated.Questions,
		Answers:   written,
		Review:    review,
		Interview: iv,
		Result:    result,
		Now:       r.now(),
	}))
	return nil
}

// collectAnswers reads one line per question. A blank line leaves the question unanswered;
// end of input leaves the rest unanswered.
func (r *rehearsal) collectAnswers(ctx context.Context, qs []types.Question, lines *speech.LineCapture, out io.Writer) (answers.Collector, error) {
	collector, err := answers.New(qs)
	if err != nil {
		return collector, err
	}

	fmt.Fprintln(out, "\nAnswer each question on one line. Leave a line blank to skip.")
	for {
		q := collector.Current()
		fmt.Fprintf(out, "\nQuestion %d of %d [%s]\n%s\n> ", collector.Cursor()+1, collector.Len(), q.Category, q.Text)

		text := readUtterance(ctx, lines, r.capture)
		if ctx.Err() != nil {
			return collector, ctx.Err()
		}
		if text != "" {
			if collector, err = collector.RecordCurrent(text); err != nil {
				return collector, err
			}
		}
		if collector.IsLast() || lines.Exhausted() {
			return collector, nil
		}
		collector = collector.Navigate(answers.Next)
	}
}

// interview runs the live stage until the stop word or end of input.
func (r *rehearsal) interview(ctx context.Context, profile types.Profile, lines *speech.LineCapture, out io.Writer) (live.Interview, error) {
	conductor := live.NewConductor(r.client, live.Options{
		Synthesizer: speech.NewWriterSynthesizer(out, "Interviewer"),
		Voice:       r.voice,
		Window:      r.window,
		Logger:      r.logger,
		Metrics:     r.metrics,
		Now:         r.now,
	})

	fmt.Fprintf(out, "\nLive interview. Type each reply on one line; type %s to finish.\n\n", StopWord)
	iv, err := conductor.Start(live.NewInterview())
	if err != nil {
		return iv, err
	}

	capture := &stopWordCapture{inner: lines, word: StopWord}
	for !capture.Stopped() && !lines.Exhausted() {
		fmt.Fprint(out, "You: ")
		iv, err = conductor.Listen(ctx, profile, iv, capture, r.capture)
		if err != nil {
			return iv, err
		}
		if iv.Phase == live.PhaseSpeaking && iv.Status != live.StatusReady {
			fmt.Fprintln(out, iv.Status)
		}
	}
	fmt.Fprintln(out)
	return conductor.End(iv), nil
}

// readUtterance returns the final text of one capture segment, or "" when nothing was said.
func readUtterance(ctx context.Context, c speech.Capture, opts speech.CaptureOptions) string {
	updates, err := c.Start(ctx, opts)
	if err != nil {
		return ""
	}
	defer c.Stop()

	var parts []string
	for u := range updates {
		if u.Final && u.Err == nil {
			parts = append(parts, u.Text)
		}
	}
	return strings.Join(parts, " ")
}

// stopWordCapture forwards updates from inner until a final segment equal to word arrives.
// That segment is swallowed and Stopped reports true from then on.
type stopWordCapture struct {
	inner   speech.Capture
	word    string
	stopped atomic.Bool
}

func (s *stopWordCapture) Start(ctx context.Context, opts speech.CaptureOptions) (<-chan speech.Update, error) {
	updates, err := s.inner.Start(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make(chan speech.Update)
	go func() {
		defer close(out)
		for u := range updates {
			if u.Final && strings.EqualFold(strings.TrimSpace(u.Text), s.word) {
				s.stopped.Store(true)
				continue
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *stopWordCapture) Stop() { s.inner.Stop() }

// Stopped reports whether the stop word has been captured.
func (s *stopWordCapture) Stopped() bool { return s.stopped.Load() }
