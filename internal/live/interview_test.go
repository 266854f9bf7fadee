package live

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func started(t *testing.T) Interview {
	t.Helper()
	iv, err := NewInterview().Start(t0)
	require.NoError(t, err)
	return iv
}

func TestStart_EmitsSingleOpeningLine(t *testing.T) {
	iv := started(t)

	require.Len(t, iv.Transcript, 1)
	assert.Equal(t, types.SpeakerInterviewer, iv.Transcript[0].Speaker)
	assert.Equal(t, OpeningLine, iv.Transcript[0].Text)
	assert.Equal(t, PhaseSpeaking, iv.Phase)

	_, err := iv.Start(t0)
	assert.True(t, errors.Is(err, ErrInvalidPhase))
}

func TestObserve_OnlyFinalSegmentsCommit(t *testing.T) {
	iv, err := started(t).BeginCapture()
	require.NoError(t, err)

	iv, _ = iv.Observe(speech.Update{Text: "I am"})
	assert.Equal(t, "I am", iv.Pending)
	assert.Empty(t, iv.Segments)

	iv, _ = iv.Observe(speech.Update{Text: "I am a Go developer", Final: true})
	iv, _ = iv.Observe(speech.Update{Text: "with five"})
	assert.Equal(t, "I am a Go developer", iv.Utterance())

	iv, err = iv.EndCapture(t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, PhaseThinking, iv.Phase)
	last, ok := iv.LastCandidateUtterance()
	require.True(t, ok)
	assert.Equal(t, "I am a Go developer", last.Text)
}

func TestEndCapture_EmptyReturnsToSpeaking(t *testing.T) {
	iv, _ := started(t).BeginCapture()
	iv, _ = iv.Observe(speech.Update{Text: "uh", Final: false})

	iv, err := iv.EndCapture(t0)
	require.NoError(t, err)
	assert.Equal(t, PhaseSpeaking, iv.Phase)
	assert.Len(t, iv.Transcript, 1)
}

func TestObserve_CaptureErrorAllowsRetry(t *testing.T) {
	iv, _ := started(t).BeginCapture()
	iv, err := iv.Observe(speech.Update{Err: &speech.CaptureError{Code: speech.CodeNoSpeech}})
	require.NoError(t, err)

	assert.Equal(t, PhaseSpeaking, iv.Phase)
	assert.Contains(t, iv.Status, "No speech")

	_, err = iv.BeginCapture()
	assert.NoError(t, err)
}

func TestRerecord_DiscardsSegments(t *testing.T) {
	iv, _ := started(t).BeginCapture()
	iv, _ = iv.Observe(speech.Update{Text: "wrong answer", Final: true})

	iv, err := iv.Rerecord()
	require.NoError(t, err)
	assert.Empty(t, iv.Utterance())
	assert.Equal(t, PhaseListening, iv.Phase)
}

func TestSubmit_TypedUtterance(t *testing.T) {
	iv, err := started(t).Submit("  I prefer typing  ", t0)
	require.NoError(t, err)
	assert.Equal(t, PhaseThinking, iv.Phase)
	assert.Equal(t, "I prefer typing", iv.Transcript[1].Text)

	_, err = started(t).Submit("   ", t0)
	assert.Error(t, err)
}

func TestTransitions_RejectWrongPhase(t *testing.T) {
	idle := NewInterview()
	_, err := idle.BeginCapture()
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = idle.Observe(speech.Update{Text: "x", Final: true})
	assert.ErrorIs(t, err, ErrInvalidPhase)
	_, err = started(t).Reply("hi", t0)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestEnd_FreezesDuration(t *testing.T) {
	iv := started(t)
	assert.Equal(t, 90*time.Second, iv.Duration(t0.Add(90*time.Second)))

	ended := iv.End(t0.Add(2 * time.Minute))
	assert.Equal(t, PhaseTerminal, ended.Phase)
	assert.Equal(t, 2*time.Minute, ended.Duration(t0.Add(time.Hour)))

	again := ended.End(t0.Add(time.Hour))
	assert.Equal(t, ended.EndedAt, again.EndedAt)

	_, err := ended.BeginCapture()
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestInterview_TransitionsDoNotMutateReceiver(t *testing.T) {
	iv := started(t)
	listening, _ := iv.BeginCapture()
	withText, _ := listening.Observe(speech.Update{Text: "hello", Final: true})
	_, _ = withText.Observe(speech.Update{Text: "again", Final: true})

	assert.Equal(t, PhaseSpeaking, iv.Phase)
	assert.Equal(t, []string{"hello"}, withText.Segments)
}
