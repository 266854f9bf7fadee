package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LineCapture treats each line read from an io.Reader as one final utterance. It stands in
// for a recognition engine when the interview runs in a terminal.
type LineCapture struct {
	scanner   *bufio.Scanner
	mu        sync.Mutex
	stop      context.CancelFunc
	exhausted bool
}

// NewLineCapture reads utterances from r.
func NewLineCapture(r io.Reader) *LineCapture {
	return &LineCapture{scanner: bufio.NewScanner(r)}
}

// Start reads the next line and emits it as a final update. An empty line yields no update.
// At end of input the channel closes without updates.
func (c *LineCapture) Start(ctx context.Context, _ CaptureOptions) (<-chan Update, error) {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.stop = cancel
	c.mu.Unlock()

	ch := make(chan Update, 1)
	go func() {
		defer close(ch)
		defer cancel()
		if !c.scanner.Scan() {
			c.mu.Lock()
			c.exhausted = true
			c.mu.Unlock()
			return
		}
		text := strings.TrimSpace(c.scanner.Text())
		if text == "" {
			return
		}
		select {
		case ch <- Update{Text: text, Final: true, At: time.Now()}:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}

// Exhausted reports whether the reader has reached end of input.
func (c *LineCapture) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

// Stop cancels the pending read.
func (c *LineCapture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		c.stop()
	}
}

// WriterSynthesizer prints spoken text to an io.Writer.
type WriterSynthesizer struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// NewWriterSynthesizer prints each utterance as "<prefix>: text".
func NewWriterSynthesizer(w io.Writer, prefix string) *WriterSynthesizer {
	return &WriterSynthesizer{w: w, prefix: prefix}
}

// Speak writes text. Voice settings have no effect on a text sink.
func (s *WriterSynthesizer) Speak(text string, _ Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefix != "" {
		_, _ = fmt.Fprintf(s.w, "%s: %s\n", s.prefix, text)
		return
	}
	_, _ = fmt.Fprintln(s.w, text)
}

// Discard is a Synthesizer that drops everything.
type Discard struct{}

// Speak does nothing.
func (Discard) Speak(string, Voice) {}
