//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAssignsIncreasingSeq(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var tr Transcript
	tr = tr.Append(SpeakerInterviewer, "Hello", now)
	tr = tr.Append(SpeakerCandidate, "Hi", now)
	tr = tr.Append(SpeakerInterviewer, "Tell me more", now)

	require.Len(t, tr, 3)
	for i := 1; i < len(tr); i++ {
		assert.Greater(t, tr[i].Seq, tr[i-1].Seq)
	}
	assert.Equal(t, 1, tr[0].Seq)
}

func TestTranscript_AppendDoesNotMutateReceiver(t *testing.T) {
	base := Transcript{}.Append(SpeakerInterviewer, "Hello", time.Time{})
	a := base.Append(SpeakerCandidate, "one", time.Time{})
	b := base.Append(SpeakerCandidate, "two", time.Time{})

	assert.Len(t, base, 1)
	assert.Equal(t, "one", a[1].Text)
	assert.Equal(t, "two", b[1].Text)
}

func TestTranscript_Last(t *testing.T) {
	var tr Transcript
	for i := 0; i < 20; i++ {
		tr = tr.Append(SpeakerCandidate, "turn", time.Time{})
	}

	last := tr.Last(6)
	require.Len(t, last, 6)
	assert.Equal(t, 15, last[0].Seq)
	assert.Equal(t, 20, last[5].Seq)

	assert.Len(t, tr.Last(50), 20)
	assert.Empty(t, tr.Last(0))
}

func TestTranscript_Count(t *testing.T) {
	tr := Transcript{}.
		Append(SpeakerInterviewer, "a", time.Time{}).
		Append(SpeakerCandidate, "b", time.Time{}).
		Append(SpeakerInterviewer, "c", time.Time{})

	assert.Equal(t, 2, tr.Count(SpeakerInterviewer))
	assert.Equal(t, 1, tr.Count(SpeakerCandidate))
}

func TestAnswerSet_WithCopies(t *testing.T) {
	base := AnswerSet{}
	next := base.With(1, "first")
	next = next.With(1, "second")

	_, ok := base.Get(1)
	assert.False(t, ok)
	text, ok := next.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "second", text)
}
