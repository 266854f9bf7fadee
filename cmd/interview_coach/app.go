package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/interview-coach/internal/assessment"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logging"
	"github.com/jonathan/interview-coach/internal/metrics"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EnvAPIKey supplies the candidate credential to the CLI commands when --api-key is omitted.
const EnvAPIKey = "INTERVIEW_API_KEY"

// loadSettings reads the optional config file, applies environment overrides and fills
// defaults.
func loadSettings(path string, getenv func(string) string) (config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(getenv)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(config.Defaults()), nil
}

func newLogger(cfg config.Config, console io.Writer) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.Development,
		Console:     console,
	})
}

// components holds the model-backed services shared by every command.
type components struct {
	client    llm.Client
	generator *questions.Generator
	engine    *assessment.Engine
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// newChatClient builds the provider client with retries and call counting.
func newChatClient(cfg config.Config, logger *zap.Logger, m *metrics.Metrics) (llm.Client, error) {
	base, err := llm.NewClient(cfg.LLM(), nil)
	if err != nil {
		return nil, err
	}
	retrying := llm.NewRetryingClient(base, cfg.Retry(), logging.Module(logger, "llm"))
	return metrics.Instrument(retrying, m), nil
}

func newComponents(cfg config.Config, client llm.Client, logger *zap.Logger, m *metrics.Metrics) components {
	return components{
		client:    client,
		generator: questions.NewGenerator(client, cfg.QuestionCount, questions.FromConfig(cfg.FallbackQuestions), logger, m),
		engine:    assessment.NewEngine(client, logger, m),
		metrics:   m,
		logger:    logger,
	}
}

// profileFlags binds the candidate profile to command flags.
type profileFlags struct {
	name       string
	email      string
	jobTitle   string
	experience string
	skills     string
	resume     string
	apiKey     string
}

func (p *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.name, "name", "", "Candidate name")
	cmd.Flags().StringVar(&p.email, "email", "", "Candidate email")
	cmd.Flags().StringVar(&p.jobTitle, "job-title", "", "Target job title")
	cmd.Flags().StringVar(&p.experience, "experience", "", "Experience band: "+experienceChoices())
	cmd.Flags().StringVar(&p.skills, "skills", "", "Comma-separated skills")
	cmd.Flags().StringVar(&p.resume, "resume", "", "Optional resume summary")
	cmd.Flags().StringVar(&p.apiKey, "api-key", "", "Chat provider API key (overrides "+EnvAPIKey+")")
}

// profile validates the flags into a Profile. The key falls back to EnvAPIKey.
func (p *profileFlags) profile(getenv func(string) string) (types.Profile, error) {
	key := p.apiKey
	if key == "" && getenv != nil {
		key = getenv(EnvAPIKey)
	}
	req := types.ProfileRequest{
		Name:          p.name,
		Email:         p.email,
		JobTitle:      p.jobTitle,
		Experience:    p.experience,
		Skills:        p.skills,
		ResumeSummary: p.resume,
		APIKey:        key,
	}
	return req.ToProfile()
}

func experienceChoices() string {
	bands := make([]string, 0, len(types.ExperienceBands))
	for _, b := range types.ExperienceBands {
		bands = append(bands, string(b))
	}
	return strings.Join(bands, ", ")
}

// setup loads settings and builds the shared components for a CLI command. Logs go to
// stderr so command output stays clean.
func setup() (config.Config, components, error) {
	cfg, err := loadSettings(configPath, os.Getenv)
	if err != nil {
		return config.Config{}, components{}, err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return config.Config{}, components{}, err
	}
	m := metrics.NewMetrics()
	client, err := newChatClient(cfg, logger, m)
	if err != nil {
		return config.Config{}, components{}, fmt.Errorf("failed to create chat client: %w", err)
	}
	return cfg, newComponents(cfg, client, logger, m), nil
}
