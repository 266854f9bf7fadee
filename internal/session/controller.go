package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/answers"
	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/results"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
	"go.uber.org/zap"
)

// CaptureAction is a candidate control during the live interview.
type CaptureAction string

// Capture actions.
const (
	CaptureBegin    CaptureAction = "begin"
	CaptureRerecord CaptureAction = "rerecord"
	CaptureEnd      CaptureAction = "end"
)

// ParseCaptureAction validates a wire value.
func ParseCaptureAction(s string) (CaptureAction, error) {
	switch a := CaptureAction(s); a {
	case CaptureBegin, CaptureRerecord, CaptureEnd:
		return a, nil
	default:
		return "", fmt.Errorf("unknown capture action %q", s)
	}
}

// Options configures a Controller.
type Options struct {
	Client    llm.Client
	Generator *questions.Generator
	Engine    *assessment.Engine
	Store     *Store
	// ReviewWrittenAnswers requests a narrative review of the written answers on submit.
	ReviewWrittenAnswers bool
	Window               int
	Voice                speech.Voice
	Logger               *zap.Logger
	Metrics              *metrics.Metrics
	Now                  func() time.Time
}

// runtime is the mutable side of a session: its generation context and in-flight flag.
type runtime struct {
	ctx    context.Context
	cancel context.CancelFunc
	busy   bool
}

// Controller serializes access to sessions. At most one suspending operation runs per
// session; Restart cancels it and bumps the generation so its result is discarded.
type Controller struct {
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	runtimes map[string]*runtime
	speakers map[string]speech.Synthesizer
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	if opts.Store == nil {
		opts.Store = NewStore(time.Hour)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Voice == (speech.Voice{}) {
		opts.Voice = speech.DefaultVoice()
	}
	c := &Controller{
		opts:     opts,
		logger:   logging.Module(opts.Logger, "session"),
		runtimes: make(map[string]*runtime),
		speakers: make(map[string]speech.Synthesizer),
	}
	opts.Store.OnEvict(c.forget)
	return c
}

func (c *Controller) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rt, ok := c.runtimes[id]; ok {
		rt.cancel()
		delete(c.runtimes, id)
	}
	delete(c.speakers, id)
}

func newRuntime() *runtime {
	ctx, cancel := context.WithCancel(context.Background())
	return &runtime{ctx: ctx, cancel: cancel}
}

// speechBuffer collects interviewer lines during an operation so they are spoken only once
// the result is committed.
type speechBuffer struct {
	lines []string
}

func (b *speechBuffer) Speak(text string, _ speech.Voice) {
	b.lines = append(b.lines, text)
}

func (c *Controller) conductor(buf *speechBuffer) *live.Conductor {
	var synth speech.Synthesizer = speech.Discard{}
	if buf != nil {
		synth = buf
	}
	return live.NewConductor(c.opts.Client, live.Options{
		Synthesizer: synth,
		Voice:       c.opts.Voice,
		Window:      c.opts.Window,
		Logger:      c.opts.Logger,
		Metrics:     c.opts.Metrics,
		Now:         c.opts.Now,
	})
}

// flushLocked speaks buffered lines on the attached synthesizer, if any.
func (c *Controller) flushLocked(id string, buf *speechBuffer) {
	if buf == nil {
		return
	}
	synth, ok := c.speakers[id]
	if !ok {
		return
	}
	for _, line := range buf.lines {
		synth.Speak(line, c.opts.Voice)
	}
}

// Attach routes the session's interviewer speech to synth until the returned detach func
// is called.
func (c *Controller) Attach(id string, synth speech.Synthesizer) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, _, err := c.loadLocked(id); err != nil {
		return nil, err
	}
	c.speakers[id] = synth
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.speakers[id] == synth {
			delete(c.speakers, id)
		}
	}, nil
}

func (c *Controller) loadLocked(id string) (State, *runtime, error) {
	state, ok := c.opts.Store.Get(id)
	if !ok {
		return State{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	rt, ok := c.runtimes[id]
	if !ok {
		rt = newRuntime()
		c.runtimes[id] = rt
	}
	return state, rt, nil
}

// mutate applies a non-suspending transition.
func (c *Controller) mutate(id string, fn func(State) (State, error)) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, rt, err := c.loadLocked(id)
	if err != nil {
		return State{}, err
	}
	if rt.busy {
		return state, ErrBusy
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	c.opts.Store.Put(next)
	return next, nil
}

// suspend runs a transition that calls out to the chat model. begin is applied and committed
// under the lock; work then runs unlocked under the session's generation context. Its result
// is committed only if the session was not restarted meanwhile.
func (c *Controller) suspend(ctx context.Context, id, op string, buf *speechBuffer,
	begin func(State) (State, error),
	work func(context.Context, State) (State, error),
) (State, error) {
	c.mu.Lock()
	state, rt, err := c.loadLocked(id)
	if err != nil {
		c.mu.Unlock()
		return State{}, err
	}
	if rt.busy {
		c.mu.Unlock()
		return state, ErrBusy
	}
	if begin != nil {
		if state, err = begin(state); err != nil {
			c.mu.Unlock()
			return state, err
		}
		c.opts.Store.Put(state)
	}
	rt.busy = true
	generation := state.Generation
	c.mu.Unlock()

	opCtx, cancel := context.WithCancel(rt.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	started := c.opts.Now()
	next, workErr := work(opCtx, state)

	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.opts.Store.Get(id)
	if !ok || c.runtimes[id] != rt || current.Generation != generation {
		c.logger.Info("discarding stale result",
			zap.String("session_id", id),
			zap.String("op", op),
			zap.Int("generation", generation),
		)
		return current, ErrStale
	}
	rt.busy = false
	if workErr != nil {
		return current, workErr
	}
	c.opts.Store.Put(next)
	c.flushLocked(id, buf)
	c.logger.Debug("operation committed",
		zap.String("session_id", id),
		zap.String("op", op),
		zap.Duration("elapsed", c.opts.Now().Sub(started)),
	)
	return next, nil
}

// Create validates the profile, opens a session and generates its questions.
func (c *Controller) Create(ctx context.Context, req types.ProfileRequest) (State, error) {
	profile, err := req.ToProfile()
	if err != nil {
		return State{}, err
	}

	now := c.opts.Now()
	state, err := NewState(uuid.NewString(), now).WithProfile(profile, now)
	if err != nil {
		return State{}, err
	}

	c.mu.Lock()
	c.opts.Store.Put(state)
	c.runtimes[state.ID] = newRuntime()
	c.mu.Unlock()

	c.opts.Metrics.IncrementSessionsCreated()
	c.logger.Info("session created",
		zap.String("session_id", state.ID),
		zap.String("job_title", profile.JobTitle),
		zap.String("experience", string(profile.Experience)),
	)

	return c.suspend(ctx, state.ID, "generate_questions", nil, nil, c.generateQuestions)
}

// CaptureProfile records a new profile on an existing session at the profile stage, which is
// where Restart leaves it, and generates its questions.
func (c *Controller) CaptureProfile(ctx context.Context, id string, req types.ProfileRequest) (State, error) {
	profile, err := req.ToProfile()
	if err != nil {
		return State{}, err
	}
	state, err := c.suspend(ctx, id, "generate_questions", nil,
		func(s State) (State, error) {
			return s.WithProfile(profile, c.opts.Now())
		},
		c.generateQuestions)
	if err == nil {
		c.logger.Info("profile captured",
			zap.String("session_id", id),
			zap.String("job_title", profile.JobTitle),
			zap.Int("generation", state.Generation),
		)
	}
	return state, err
}

func (c *Controller) generateQuestions(ctx context.Context, s State) (State, error) {
	res := c.opts.Generator.Generate(ctx, *s.Profile)
	return s.WithQuestions(res, c.opts.Now())
}

// Get returns the current snapshot.
func (c *Controller) Get(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, _, err := c.loadLocked(id)
	return state, err
}

// Snapshot returns the serializable view of state with the in-flight flag filled in.
func (c *Controller) Snapshot(state State) Snapshot {
	snap := state.Snapshot()
	snap.Busy = c.Busy(state.ID)
	return snap
}

// Busy reports whether id has an operation in flight.
func (c *Controller) Busy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	rt, ok := c.runtimes[id]
	return ok && rt.busy
}

// RecordAnswer stores a written answer.
func (c *Controller) RecordAnswer(id string, questionID int, text string) (State, error) {
	return c.mutate(id, func(s State) (State, error) {
		return s.RecordAnswer(questionID, text, c.opts.Now())
	})
}

// Navigate moves between written questions.
func (c *Controller) Navigate(id string, d answers.Direction) (State, error) {
	return c.mutate(id, func(s State) (State, error) {
		return s.Navigate(d, c.opts.Now())
	})
}

// SubmitAnswers finalizes the written answers, requests their review when enabled and opens
// the live stage.
func (c *Controller) SubmitAnswers(ctx context.Context, id string) (State, error) {
	return c.suspend(ctx, id, "submit_answers", nil,
		func(s State) (State, error) {
			return s, s.require(StageQuestions, "submit answers")
		},
		func(ctx context.Context, s State) (State, error) {
			review := ""
			if c.opts.ReviewWrittenAnswers {
				review = c.opts.Engine.ReviewWrittenAnswers(ctx, *s.Profile, s.Collector.Questions(), s.Collector.Finalize())
			}
			return s.FinishAnswers(review, c.opts.Now())
		})
}

// StartInterview speaks the opening line.
func (c *Controller) StartInterview(id string) (State, error) {
	buf := &speechBuffer{}
	c.mu.Lock()
	defer c.mu.Unlock()

	state, rt, err := c.loadLocked(id)
	if err != nil {
		return State{}, err
	}
	if rt.busy {
		return state, ErrBusy
	}
	if err := state.require(StageLive, "start interview"); err != nil {
		return state, err
	}
	iv, err := c.conductor(buf).Start(state.Interview)
	if err != nil {
		return state, err
	}
	next, err := state.WithInterview(iv, c.opts.Now())
	if err != nil {
		return state, err
	}
	c.opts.Store.Put(next)
	c.flushLocked(id, buf)
	return next, nil
}

// Capture applies a candidate capture control. Ending a capture with speech in it asks the
// model for the interviewer's reply.
func (c *Controller) Capture(ctx context.Context, id string, action CaptureAction) (State, error) {
	switch action {
	case CaptureBegin:
		return c.updateInterview(id, func(iv live.Interview) (live.Interview, error) {
			return iv.BeginCapture()
		})
	case CaptureRerecord:
		return c.updateInterview(id, func(iv live.Interview) (live.Interview, error) {
			return iv.Rerecord()
		})
	case CaptureEnd:
		return c.respond(ctx, id, "end_capture", func(iv live.Interview) (live.Interview, error) {
			return iv.EndCapture(c.opts.Now())
		})
	default:
		return State{}, fmt.Errorf("unknown capture action %q", action)
	}
}

// Observe folds one recognition update into the interview.
func (c *Controller) Observe(id string, u speech.Update) (State, error) {
	return c.updateInterview(id, func(iv live.Interview) (live.Interview, error) {
		return iv.Observe(u)
	})
}

// Say submits a typed utterance and waits for the interviewer's reply.
func (c *Controller) Say(ctx context.Context, id, text string) (State, error) {
	return c.respond(ctx, id, "say", func(iv live.Interview) (live.Interview, error) {
		return iv.Submit(text, c.opts.Now())
	})
}

func (c *Controller) updateInterview(id string, fn func(live.Interview) (live.Interview, error)) (State, error) {
	return c.mutate(id, func(s State) (State, error) {
		if err := s.require(StageLive, "update interview"); err != nil {
			return s, err
		}
		iv, err := fn(s.Interview)
		if err != nil {
			return s, err
		}
		return s.WithInterview(iv, c.opts.Now())
	})
}

// respond commits the candidate turn produced by fn and, if the interview is now thinking,
// generates and delivers the reply.
func (c *Controller) respond(ctx context.Context, id, op string, fn func(live.Interview) (live.Interview, error)) (State, error) {
	buf := &speechBuffer{}
	conductor := c.conductor(buf)
	return c.suspend(ctx, id, op, buf,
		func(s State) (State, error) {
			if err := s.require(StageLive, op); err != nil {
				return s, err
			}
			iv, err := fn(s.Interview)
			if err != nil {
				return s, err
			}
			return s.WithInterview(iv, c.opts.Now())
		},
		func(ctx context.Context, s State) (State, error) {
			if s.Interview.Phase != live.PhaseThinking {
				return s, nil
			}
			iv, err := conductor.Respond(ctx, *s.Profile, s.Interview)
			if err != nil {
				return s, err
			}
			return s.WithInterview(iv, c.opts.Now())
		})
}

// EndInterview ends the live interview and runs the assessment. The assessment is detached
// from ctx: once the interview has ended only Restart can cancel it.
func (c *Controller) EndInterview(ctx context.Context, id string) (State, error) {
	conductor := c.conductor(nil)
	return c.suspend(context.WithoutCancel(ctx), id, "assess", nil,
		func(s State) (State, error) {
			if err := s.require(StageLive, "end interview"); err != nil {
				return s, err
			}
			return s.WithInterview(conductor.End(s.Interview), c.opts.Now())
		},
		func(ctx context.Context, s State) (State, error) {
			result := c.opts.Engine.Assess(ctx, assessment.Input{
				Profile:    *s.Profile,
				Questions:  s.Questions.Questions,
				Answers:    s.Answers,
				Review:     s.Review,
				Transcript: s.Interview.Transcript,
			})
			return s.Complete(result, c.opts.Now())
		})
}

// Results builds the results view of a completed session.
func (c *Controller) Results(id string) (results.View, error) {
	state, err := c.Get(id)
	if err != nil {
		return results.View{}, err
	}
	if err := state.require(StageComplete, "view results"); err != nil {
		return results.View{}, err
	}
	return results.Present(results.Input{
		Profile:   *state.Profile,
		Questions: state.Questions.Questions,
		Answers:   state.Answers,
		Review:    state.Review,
		Interview: state.Interview,
		Result:    *state.Result,
		Now:       c.opts.Now(),
	}), nil
}

// Restart cancels any in-flight operation and resets the session to the profile stage.
func (c *Controller) Restart(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, rt, err := c.loadLocked(id)
	if err != nil {
		return State{}, err
	}
	rt.cancel()
	c.runtimes[id] = newRuntime()

	next := state.Reset(c.opts.Now())
	c.opts.Store.Put(next)
	c.logger.Info("session restarted",
		zap.String("session_id", id),
		zap.Int("generation", next.Generation),
		zap.Bool("cancelled_in_flight", rt.busy),
	)
	return next, nil
}
