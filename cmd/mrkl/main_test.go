package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rickchristie/mrkl/config"
	"github.com/rickchristie/mrkl/internal/tt"
	"github.com/rickchristie/mrkl/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestAnswer(t *testing.T) {
	type input struct {
		responses []string
	}

	type expected struct {
		contains []string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "weather question",
			input: input{responses: []string{
				" I need the weather for the 30th\nAction: [TodaysWeatherGetter]\nAction Input: 30",
				" I now know the final answer\nFinal Answer: It is 300 degrees.",
			}},
			expected: expected{contains: []string{
				"[TodaysWeatherGetter]",
				"Todays weather 300 degrees fahrenheit.",
				"Final Answer:",
				"It is 300 degrees.",
			}},
		},
		{
			name:  "unparseable output is printed",
			input: input{responses: []string{"I refuse"}},
			expected: expected{contains: []string{
				"Run failed at parse (step 1)",
				"I refuse",
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := tt.NewMockModel()
			for _, r := range tc.input.responses {
				model.AddResponse(r, 10, 5)
			}
			exec, _ := newExecutor(testConfig(t), model, zap.NewNop())

			var buf bytes.Buffer
			require.NoError(t, answer(context.Background(), exec, "What is the weather on the 30th?", &buf))
			for _, s := range tc.expected.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestAnswer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec, _ := newExecutor(testConfig(t), tt.NewMockModel(), zap.NewNop())

	var buf bytes.Buffer
	err := answer(ctx, exec, "q", &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewModel(t *testing.T) {
	type input struct {
		cfg config.ModelConfig
		env map[string]string
	}

	type expected struct {
		err error
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:  "openai with key",
			input: input{cfg: config.ModelConfig{Provider: config.ProviderOpenAI, Name: "gpt-4o-mini", APIKey: "sk"}},
		},
		{
			name: "openai key from environment",
			input: input{
				cfg: config.ModelConfig{Provider: config.ProviderOpenAI, Name: "gpt-4o-mini"},
				env: map[string]string{"OPENAI_API_KEY": "sk-env"},
			},
		},
		{
			name: "openai without key",
			input: input{
				cfg: config.ModelConfig{Provider: config.ProviderOpenAI, Name: "gpt-4o-mini"},
				env: map[string]string{"OPENAI_API_KEY": ""},
			},
			expected: expected{err: models.ErrMissingToken},
		},
		{
			name:  "langchaingo",
			input: input{cfg: config.ModelConfig{Provider: config.ProviderLangChainGo, Name: "gpt-4o-mini", APIKey: "sk"}},
		},
		{
			name: "github token from environment",
			input: input{
				cfg: config.ModelConfig{Provider: config.ProviderGitHub, Name: models.GitHubGPT4oMini},
				env: map[string]string{"GITHUB_TOKEN": "ghp_x"},
			},
		},
		{
			name: "github without token",
			input: input{
				cfg: config.ModelConfig{Provider: config.ProviderGitHub},
				env: map[string]string{"GITHUB_TOKEN": ""},
			},
			expected: expected{err: models.ErrMissingToken},
		},
		{
			name:     "unknown provider",
			input:    input{cfg: config.ModelConfig{Provider: "bedrock"}},
			expected: expected{err: config.ErrInvalidConfig},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.input.env {
				t.Setenv(k, v)
			}

			model, err := newModel(tc.input.cfg)
			if tc.expected.err != nil {
				assert.ErrorIs(t, err, tc.expected.err)
				assert.Nil(t, model)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, model)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MRKL_TEST_A=base\nMRKL_TEST_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("MRKL_TEST_B=overlay\n"), 0o600))
	t.Setenv("APP_ENV", "ci")
	t.Setenv("MRKL_TEST_A", "")
	t.Setenv("MRKL_TEST_B", "")
	os.Unsetenv("MRKL_TEST_A")
	os.Unsetenv("MRKL_TEST_B")

	loaded := loadEnv(dir)

	assert.Equal(t, []string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.ci")}, loaded)
	assert.Equal(t, "base", os.Getenv("MRKL_TEST_A"))
	assert.Equal(t, "overlay", os.Getenv("MRKL_TEST_B"))
}
