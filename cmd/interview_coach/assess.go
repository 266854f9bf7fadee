package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/live"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/results"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score a recorded interview",
	Long:  "Scores a recorded interview read from a JSON file holding the profile, questions, written answers and live transcript. Sample scores are shown when the assessment is unavailable.",
	RunE:  runAssess,
}

var (
	assessInputFile string
	assessAPIKey    string
	assessAsJSON    bool
)

func init() {
	assessCmd.Flags().StringVarP(&assessInputFile, "input", "i", "", "Path to the recorded interview JSON file (required)")
	assessCmd.Flags().StringVar(&assessAPIKey, "api-key", "", "Chat provider API key (overrides the file and "+EnvAPIKey+")")
	assessCmd.Flags().BoolVar(&assessAsJSON, "json", false, "Print the results view as JSON")

	if err := assessCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(assessCmd)
}

// recording is the on-disk form of a finished interview.
type recording struct {
	Profile    types.ProfileRequest `json:"profile"`
	Questions  []types.Question     `json:"questions"`
	Answers    types.AnswerSet      `json:"answers"`
	Review     string               `json:"review,omitempty"`
	Transcript types.Transcript     `json:"transcript"`
}

// readRecording loads a recording and validates its profile. apiKey, when set, replaces the
// recorded credential.
func readRecording(path, apiKey string) (recording, types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recording{}, types.Profile{}, fmt.Errorf("failed to read recording %s: %w", path, err)
	}
	var rec recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return recording{}, types.Profile{}, fmt.Errorf("failed to parse recording JSON: %w", err)
	}
	if apiKey != "" {
		rec.Profile.APIKey = apiKey
	}
	profile, err := rec.Profile.ToProfile()
	if err != nil {
		return recording{}, types.Profile{}, err
	}
	if len(rec.Questions) == 0 {
		return recording{}, types.Profile{}, fmt.Errorf("recording has no questions")
	}
	return rec, profile, nil
}

func runAssess(cmd *cobra.Command, _ []string) error {
	key := assessAPIKey
	if key == "" {
		key = os.Getenv(EnvAPIKey)
	}
	rec, profile, err := readRecording(assessInputFile, key)
	if err != nil {
		return err
	}
	_, c, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = c.client.Close() }()

	return writeAssessment(cmd.Context(), c.engine, rec, profile, cmd.OutOrStdout(), assessAsJSON)
}

func writeAssessment(ctx context.Context, engine *assessment.Engine, rec recording, profile types.Profile, out io.Writer, asJSON bool) error {
	result := engine.Assess(ctx, assessment.Input{
		Profile:    profile,
		Questions:  rec.Questions,
		Answers:    rec.Answers,
		Review:     rec.Review,
		Transcript: rec.Transcript,
	})

	iv := live.Interview{Phase: live.PhaseTerminal, Transcript: rec.Transcript, Status: live.StatusEnded}
	if n := len(rec.Transcript); n > 0 {
		iv.StartedAt = rec.Transcript[0].At
		iv.EndedAt = rec.Transcript[n-1].At
	}
	view := results.Present(results.Input{
		Profile:   profile,
		Questions: rec.Questions,
		Answers:   rec.Answers,
		Review:    rec.Review,
		Interview: iv,
		Result:    result,
		Now:       iv.EndedAt,
	})

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	}
	observability.NewPrinter(out).PrintResults(view)
	return nil
}
