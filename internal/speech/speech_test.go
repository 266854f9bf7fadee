package speech

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, ch <-chan Update) []Update {
	t.Helper()
	var out []Update
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatal("capture channel never closed")
		}
	}
}

func TestLineCapture(t *testing.T) {
	c := NewLineCapture(strings.NewReader("I build APIs in Go\n\n"))

	ch, err := c.Start(context.Background(), DefaultCaptureOptions())
	require.NoError(t, err)
	updates := drain(t, ch)
	require.Len(t, updates, 1)
	assert.Equal(t, "I build APIs in Go", updates[0].Text)
	assert.True(t, updates[0].Final)

	ch, err = c.Start(context.Background(), DefaultCaptureOptions())
	require.NoError(t, err)
	assert.Empty(t, drain(t, ch), "blank line yields nothing")
	assert.False(t, c.Exhausted())

	ch, err = c.Start(context.Background(), DefaultCaptureOptions())
	require.NoError(t, err)
	assert.Empty(t, drain(t, ch), "end of input yields nothing")
	assert.True(t, c.Exhausted())
}

func TestWriterSynthesizer(t *testing.T) {
	var buf bytes.Buffer
	NewWriterSynthesizer(&buf, "Interviewer").Speak("Hello!", DefaultVoice())
	assert.Equal(t, "Interviewer: Hello!\n", buf.String())
}

func TestCaptureError(t *testing.T) {
	err := &CaptureError{Code: CodeNotAllowed}
	assert.Contains(t, err.Error(), "not-allowed")
	assert.Contains(t, err.StatusMessage(), "denied")
	assert.Contains(t, (&CaptureError{Code: "weird"}).StatusMessage(), "weird")
}

func TestDefaultVoice(t *testing.T) {
	assert.Equal(t, Voice{Rate: 0.97, Pitch: 1, Volume: 0.9}, DefaultVoice())
}
