// Package config provides configuration loading and validation for the interview coach.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"gopkg.in/yaml.v3"
)

// Config represents settings that can be loaded from a JSON or YAML file.
// All fields are optional; missing values fall back to Defaults.
type Config struct {
	// Chat completion
	Provider    string  `json:"provider,omitempty" yaml:"provider,omitempty"`       // groq, openai or gemini
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`       // Chat-completions URL
	Models      Models  `json:"models,omitempty" yaml:"models,omitempty"`           // Model per tier
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"` // Sampling temperature
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`   // Response length cap

	// Resilience
	RequestTimeoutSeconds int  `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"` // Per-attempt timeout
	MaxRetries            *int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`                         // Extra attempts after the first

	// Interview
	QuestionCount        int                `json:"question_count,omitempty" yaml:"question_count,omitempty"`                 // Questions per session
	HistoryWindow        int                `json:"history_window,omitempty" yaml:"history_window,omitempty"`                 // Turns embedded in live prompts
	ReviewWrittenAnswers *bool              `json:"review_written_answers,omitempty" yaml:"review_written_answers,omitempty"` // Ask for a written-answer review
	FallbackQuestions    []FallbackQuestion `json:"fallback_questions,omitempty" yaml:"fallback_questions,omitempty"`         // Replaces the built-in question bank

	// Speech
	SpeechLanguage string `json:"speech_language,omitempty" yaml:"speech_language,omitempty"` // Recognition locale
	Voice          Voice  `json:"voice,omitempty" yaml:"voice,omitempty"`                     // Synthesis settings

	// Service
	Port              int    `json:"port,omitempty" yaml:"port,omitempty"`
	SessionTTLMinutes int    `json:"session_ttl_minutes,omitempty" yaml:"session_ttl_minutes,omitempty"`
	LogLevel          string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile           string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	Development       bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// Models names the provider model for each tier.
type Models struct {
	Lite     string `json:"lite,omitempty" yaml:"lite,omitempty"`
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`
	Advanced string `json:"advanced,omitempty" yaml:"advanced,omitempty"`
}

// Voice holds speech synthesis settings.
type Voice struct {
	Rate   float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	Pitch  float64 `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Volume float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// FallbackQuestion is one entry of a custom fallback question bank.
type FallbackQuestion struct {
	Question string `json:"question" yaml:"question"`
	Type     string `json:"type" yaml:"type"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	retries := 1
	review := true
	return Config{
		Provider: "groq",
		Endpoint: "https://api.groq.com/openai/v1/chat/completions",
		Models: Models{
			Lite:     "llama-3.1-8b-instant",
			Standard: "llama-3.3-70b-versatile",
			Advanced: "llama-3.3-70b-versatile",
		},
		Temperature:           0.7,
		MaxTokens:             1000,
		RequestTimeoutSeconds: 20,
		MaxRetries:            &retries,
		QuestionCount:         7,
		HistoryWindow:         6,
		ReviewWrittenAnswers:  &review,
		SpeechLanguage:        "en-US",
		Voice:                 Voice{Rate: 0.97, Pitch: 1, Volume: 0.9},
		Port:                  8080,
		SessionTTLMinutes:     60,
		LogLevel:              "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "groq", "openai", "gemini":
	default:
		return fmt.Errorf("config error: unsupported provider %q", c.Provider)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.RequestTimeoutSeconds < 0 || c.RequestTimeoutSeconds > 120 {
		return fmt.Errorf("config error: 'request_timeout_seconds' must be between 0 and 120")
	}
	if c.MaxRetries != nil && (*c.MaxRetries < 0 || *c.MaxRetries > 3) {
		return fmt.Errorf("config error: 'max_retries' must be between 0 and 3")
	}
	if c.QuestionCount < 0 || c.QuestionCount > 20 {
		return fmt.Errorf("config error: 'question_count' must be between 0 and 20")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("config error: 'history_window' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}

	if n := len(c.FallbackQuestions); n > 0 && n < 4 {
		return fmt.Errorf("config error: 'fallback_questions' needs at least 4 entries, got %d", n)
	}
	for i, q := range c.FallbackQuestions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("config error: fallback question %d has empty text", i+1)
		}
		switch q.Type {
		case "technical", "behavioral", "project":
		default:
			return fmt.Errorf("config error: fallback question %d has unknown type %q", i+1, q.Type)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Endpoint == "" {
		result.Endpoint = defaults.Endpoint
	}
	if result.Models.Lite == "" {
		result.Models.Lite = defaults.Models.Lite
	}
	if result.Models.Standard == "" {
		result.Models.Standard = defaults.Models.Standard
	}
	if result.Models.Advanced == "" {
		result.Models.Advanced = defaults.Models.Advanced
	}
	if result.SpeechLanguage == "" {
		result.SpeechLanguage = defaults.SpeechLanguage
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if result.QuestionCount == 0 {
		result.QuestionCount = defaults.QuestionCount
	}
	if result.HistoryWindow == 0 {
		result.HistoryWindow = defaults.HistoryWindow
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SessionTTLMinutes == 0 {
		result.SessionTTLMinutes = defaults.SessionTTLMinutes
	}
	if result.Voice.Rate == 0 {
		result.Voice.Rate = defaults.Voice.Rate
	}
	if result.Voice.Pitch == 0 {
		result.Voice.Pitch = defaults.Voice.Pitch
	}
	if result.Voice.Volume == 0 {
		result.Voice.Volume = defaults.Voice.Volume
	}

	// Pointer fields distinguish "unset" from an explicit zero/false
	if result.MaxRetries == nil {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.ReviewWrittenAnswers == nil {
		result.ReviewWrittenAnswers = defaults.ReviewWrittenAnswers
	}
	if len(result.FallbackQuestions) == 0 {
		result.FallbackQuestions = defaults.FallbackQuestions
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// ApplyEnv overrides fields from environment variables.
// Recognized keys: LLM_PROVIDER, LLM_ENDPOINT, LLM_MODEL_LITE, LLM_MODEL_STANDARD,
// LLM_MODEL_ADVANCED, LOG_LEVEL, LOG_FILE, APP_ENV.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Provider, "LLM_PROVIDER")
	set(&c.Endpoint, "LLM_ENDPOINT")
	set(&c.Models.Lite, "LLM_MODEL_LITE")
	set(&c.Models.Standard, "LLM_MODEL_STANDARD")
	set(&c.Models.Advanced, "LLM_MODEL_ADVANCED")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.LogFile, "LOG_FILE")
	if strings.EqualFold(getenv("APP_ENV"), "development") {
		c.Development = true
	}
}

// RequestTimeout returns the per-attempt timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns how long an idle session is kept in memory.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Retries returns the configured retry count, zero when unset.
func (c *Config) Retries() int {
	if c.MaxRetries == nil {
		return 0
	}
	return *c.MaxRetries
}

// ReviewEnabled reports whether written answers get a review pass.
func (c *Config) ReviewEnabled() bool {
	return c.ReviewWrittenAnswers != nil && *c.ReviewWrittenAnswers
}

// LLM returns the chat-completion settings.
func (c *Config) LLM() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.Provider),
		Endpoint: c.Endpoint,
		Models: map[llm.ModelTier]string{
			llm.TierLite:     c.Models.Lite,
			llm.TierStandard: c.Models.Standard,
			llm.TierAdvanced: c.Models.Advanced,
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.RequestTimeout(),
	}
}

// Retry returns the retry policy for chat calls.
func (c *Config) Retry() llm.RetryOptions {
	opts := llm.DefaultRetryOptions()
	opts.MaxRetries = uint(c.Retries())
	if c.RequestTimeoutSeconds > 0 {
		opts.AttemptTimeout = c.RequestTimeout()
	}
	return opts
}
