package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/speech"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview API server",
	Long:  `Start an HTTP server that exposes the interview workflow as REST endpoints plus a WebSocket channel for the live interview.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, c, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = c.logger.Sync() }()
	defer func() { _ = c.client.Close() }()

	if servePort != 0 {
		cfg.Port = servePort
	}

	rl := ratelimit.LoadConfig(os.Getenv)

	controller := session.NewController(session.Options{
		Client:               c.client,
		Generator:            c.generator,
		Engine:               c.engine,
		Store:                session.NewStore(cfg.SessionTTL()),
		ReviewWrittenAnswers: cfg.ReviewEnabled(),
		Window:               cfg.HistoryWindow,
		Voice:                speech.Voice{Rate: cfg.Voice.Rate, Pitch: cfg.Voice.Pitch, Volume: cfg.Voice.Volume},
		Logger:               c.logger,
		Metrics:              c.metrics,
	})

	srv := server.New(server.Config{Port: cfg.Port, RateLimit: rl}, controller, c.metrics, c.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("interview coach ready",
		zap.Int("port", cfg.Port),
		zap.String("provider", cfg.Provider),
		zap.Int("question_count", cfg.QuestionCount),
		zap.Int("history_window", cfg.HistoryWindow),
		zap.Bool("rate_limit", rl.Enabled),
	)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
