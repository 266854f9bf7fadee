// Package observability provides boxed, human-readable output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/results"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// innerWidth is the usable text width inside a box
	innerWidth = boxWidth - 4
	// maxTurnsToShow caps the transcript box
	maxTurnsToShow = 20
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines are wrapped.
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", innerWidth, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, innerWidth) {
			fmt.Fprintf(p.out, "│ %-*s │\n", innerWidth, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap breaks line on spaces so no piece exceeds width runes. Words longer than width are
// split. Leading indentation is repeated on continuation lines.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if len(indent) >= width/2 {
		indent = ""
	}

	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(indent+word) > width {
			if current != "" {
				out = append(out, current)
				current = ""
			}
			runes := []rune(word)
			cut := width - utf8.RuneCountInString(indent)
			out = append(out, indent+string(runes[:cut]))
			word = string(runes[cut:])
		}
		switch {
		case current == "":
			current = indent + word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= width:
			current += " " + word
		default:
			out = append(out, current)
			current = indent + word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// PrintProfile outputs the captured candidate profile. The API credential is never shown.
func (p *Printer) PrintProfile(profile types.Profile) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:        %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Role:        %s\n", profile.JobTitle))
	sb.WriteString(fmt.Sprintf("Experience:  %s years (%s)\n", profile.Experience, profile.Experience.Label()))
	sb.WriteString(fmt.Sprintf("Skills:      %s", profile.Skills))
	if profile.ResumeSummary != "" {
		sb.WriteString(fmt.Sprintf("\n\nSummary:\n  %s", profile.ResumeSummary))
	}
	p.printBox("CANDIDATE PROFILE", sb.String())
}

// PrintQuestions outputs the question list, noting when the fallback list is in use.
func (p *Printer) PrintQuestions(res questions.Result) {
	if len(res.Questions) == 0 {
		return
	}

	var sb strings.Builder
	if res.Fallback {
		sb.WriteString(fmt.Sprintf("⚠ Using the built-in question list (%s)\n\n", res.Reason))
	}
	for i, q := range res.Questions {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s", q.ID, q.Category, q.Text))
		if i < len(res.Questions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("INTERVIEW QUESTIONS (%d)", len(res.Questions)), sb.String())
}

// PrintTranscript outputs the most recent turns of a live interview.
func (p *Printer) PrintTranscript(transcript types.Transcript) {
	if len(transcript) == 0 {
		return
	}

	var sb strings.Builder
	shown := transcript.Last(maxTurnsToShow)
	if hidden := len(transcript) - len(shown); hidden > 0 {
		sb.WriteString(fmt.Sprintf("... %d earlier turns\n\n", hidden))
	}
	for i, turn := range shown {
		speaker := "Candidate"
		if turn.Speaker == types.SpeakerInterviewer {
			speaker = "Interviewer"
		}
		sb.WriteString(fmt.Sprintf("%s:\n  %s", speaker, turn.Text))
		if i < len(shown)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("INTERVIEW TRANSCRIPT", sb.String())
}

// PrintResults outputs the score cards and feedback.
func (p *Printer) PrintResults(view results.View) {
	var sb strings.Builder
	if !view.Available {
		sb.WriteString("⚠ Assessment unavailable; showing sample scores\n\n")
	}

	sb.WriteString(fmt.Sprintf("%-18s %3d%%  %s\n", view.Overall.Title, view.Overall.Score, view.Overall.Rating))
	sb.WriteString(strings.Repeat("─", innerWidth) + "\n")
	for _, card := range view.Scores {
		sb.WriteString(fmt.Sprintf("%-18s %3d%%  %-18s %s\n", card.Title, card.Score, card.Rating, bar(card.Score, 20)))
	}
	sb.WriteString(fmt.Sprintf("\nQuestions asked: %d    Duration: %s", view.QuestionsAsked, view.Duration))

	p.printBox("INTERVIEW RESULTS", sb.String())

	if len(view.Feedback) > 0 {
		p.printBox("FEEDBACK", strings.Join(view.Feedback, "\n\n"))
	}
	if view.Review != "" {
		p.printBox("WRITTEN ANSWER REVIEW", view.Review)
	}
}

// bar renders score as a fixed-width horizontal bar.
func bar(score, width int) string {
	filled := score * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
