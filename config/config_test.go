package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rickchristie/mrkl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrkl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderGitHub, cfg.Model.Provider)
	assert.Equal(t, "openai/gpt-4.1-mini", cfg.Model.Name)
	assert.Equal(t, 15, cfg.Agent.MaxSteps)
	assert.Equal(t, []string{"\nObservation"}, cfg.Agent.Stop)
	assert.Equal(t, 3, cfg.Agent.MaxConsecutiveToolErrors)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "", cfg.Metrics.Addr)
	assert.Equal(t, "mrkl", cfg.Metrics.Namespace)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
model:
  provider: openai
  name: gpt-4o-mini
  base_url: http://localhost:8080/v1
  api_key: ${TEST_MRKL_KEY}
  temperature: 0.3
agent:
  max_steps: 5
  max_calls_per_tool: 4
log:
  level: debug
  format: json
metrics:
  addr: ":9090"
`)
	t.Setenv("TEST_MRKL_KEY", "sk-test")
	t.Setenv("MRKL_AGENT_MAX_STEPS", "7")
	t.Setenv("MRKL_MODEL_NAME", "gpt-4.1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Model.Provider)
	assert.Equal(t, "gpt-4.1", cfg.Model.Name)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Model.BaseURL)
	assert.Equal(t, "sk-test", cfg.Model.APIKey)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 7, cfg.Agent.MaxSteps)
	assert.Equal(t, 4, cfg.Agent.MaxCallsPerTool)
	assert.Equal(t, 3, cfg.Agent.MaxConsecutiveToolErrors)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoad_Errors(t *testing.T) {
	type input struct {
		content string
		env     map[string]string
	}

	tests := []struct {
		name  string
		input input
	}{
		{
			name:  "unknown provider",
			input: input{content: "model:\n  provider: bedrock\n"},
		},
		{
			name:  "zero max steps",
			input: input{content: "agent:\n  max_steps: 0\n"},
		},
		{
			name:  "bad log level from env",
			input: input{env: map[string]string{"MRKL_LOG_LEVEL": "loud"}},
		},
		{
			name:  "bad log format",
			input: input{content: "log:\n  format: xml\n"},
		},
		{
			name:  "empty model name",
			input: input{content: "model:\n  name: \"\"\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.input.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.input.content != "" {
				path = writeConfig(t, tt.input.content)
			}

			cfg, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestAgentConfig_Limits(t *testing.T) {
	type expected struct {
		limits []mrkl.Limit
	}

	tests := []struct {
		name     string
		input    AgentConfig
		expected expected
	}{
		{
			name:     "all disabled",
			input:    AgentConfig{},
			expected: expected{limits: nil},
		},
		{
			name:  "all enabled",
			input: AgentConfig{MaxConsecutiveToolErrors: 3, MaxCallsPerTool: 5, MaxInputTokens: 100000},
			expected: expected{limits: []mrkl.Limit{
				{Type: mrkl.LimitExactKey, Key: mrkl.KeyToolCallsErrorConsecutive, MaxValue: 3},
				{Type: mrkl.LimitKeyPrefix, Key: mrkl.KeyToolCallsFor, MaxValue: 5},
				{Type: mrkl.LimitExactKey, Key: mrkl.KeyInputTokens, MaxValue: 100000},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected.limits, tt.input.Limits())
		})
	}
}

func TestLogConfig_Build(t *testing.T) {
	logger, err := LogConfig{Level: "warn", Format: "json"}.Build()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))

	_, err = LogConfig{Level: "nope", Format: "console"}.Build()
	assert.Error(t, err)
}
