package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions for a candidate profile",
	Long:  "Generates the interview question list for the given profile. The built-in list is used when the model call fails or returns an unusable response.",
	RunE:  runQuestions,
}

var (
	questionsProfile profileFlags
	questionsAsJSON  bool
)

func init() {
	questionsProfile.register(questionsCmd)
	questionsCmd.Flags().BoolVar(&questionsAsJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, _ []string) error {
	profile, err := questionsProfile.profile(os.Getenv)
	if err != nil {
		return err
	}
	_, c, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = c.client.Close() }()

	return writeQuestions(cmd.Context(), c.generator, profile, cmd.OutOrStdout(), questionsAsJSON)
}

func writeQuestions(ctx context.Context, g *questions.Generator, profile types.Profile, out io.Writer, asJSON bool) error {
	res := g.Generate(ctx, profile)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode questions: %w", err)
		}
		return nil
	}
	observability.NewPrinter(out).PrintQuestions(res)
	return nil
}
