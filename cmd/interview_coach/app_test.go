package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg, err := loadSettings("", envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, 7, cfg.QuestionCount)
	assert.Equal(t, 6, cfg.HistoryWindow)
	assert.Equal(t, 1, cfg.Retries())
	assert.True(t, cfg.ReviewEnabled())
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
question_count: 5
history_window: 4
review_written_answers: false
models:
  lite: small-model
`), 0o600))

	cfg, err := loadSettings(path, envMap(map[string]string{"LLM_MODEL_ADVANCED": "big-model"}))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.QuestionCount)
	assert.Equal(t, 4, cfg.HistoryWindow)
	assert.False(t, cfg.ReviewEnabled())
	assert.Equal(t, "small-model", cfg.Models.Lite)
	assert.Equal(t, "big-model", cfg.Models.Advanced)
	assert.NotEmpty(t, cfg.Models.Standard)
}

func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coach.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider": "carrier-pigeon"}`), 0o600))

	_, err := loadSettings(path, envMap(nil))
	assert.Error(t, err)

	_, err = loadSettings(filepath.Join(t.TempDir(), "missing.json"), envMap(nil))
	assert.Error(t, err)
}

func TestProfileFlags(t *testing.T) {
	flags := profileFlags{
		name:       "Riley",
		email:      "riley@example.com",
		jobTitle:   "Backend Engineer",
		experience: "4-6",
		skills:     "Go",
	}

	t.Run("credential from environment", func(t *testing.T) {
		profile, err := flags.profile(envMap(map[string]string{EnvAPIKey: "env-key"}))
		require.NoError(t, err)
		assert.Equal(t, "env-key", profile.APICredential)
		assert.Equal(t, types.Experience4To6, profile.Experience)
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		withKey := flags
		withKey.apiKey = "flag-key"
		profile, err := withKey.profile(envMap(map[string]string{EnvAPIKey: "env-key"}))
		require.NoError(t, err)
		assert.Equal(t, "flag-key", profile.APICredential)
	})

	t.Run("missing credential", func(t *testing.T) {
		_, err := flags.profile(envMap(nil))
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "api_key", verr.Fields[0].Field)
	})
}

func TestExperienceChoices(t *testing.T) {
	assert.Equal(t, "0-1, 2-3, 4-6, 7-10, 10+", experienceChoices())
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "questions", "rehearse", "assess"})
}

func TestAssessCommand_RequiresInput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"assess"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, `required flag(s) "input" not set`)
}
