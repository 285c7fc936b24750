// Package config loads the CLI configuration from an optional YAML file and
// MRKL_* environment variables.
//
//	model:
//	  provider: openai        # openai | langchaingo | github
//	  name: gpt-4o-mini
//	  api_key: ${OPENAI_API_KEY}
//	agent:
//	  max_steps: 15
//	  max_consecutive_tool_errors: 3
//	log:
//	  level: info
//	  format: console
//	metrics:
//	  addr: ":9090"
//
// Every key can be overridden from the environment, e.g. MRKL_MODEL_NAME or
// MRKL_AGENT_MAX_STEPS.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rickchristie/mrkl"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MRKL"

// Model providers.
const (
	ProviderOpenAI      = "openai"
	ProviderLangChainGo = "langchaingo"
	ProviderGitHub      = "github"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the CLI configuration.
type Config struct {
	Model   ModelConfig   `mapstructure:"model"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ModelConfig selects and configures the model adapter.
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | langchaingo | github
	Name        string  `mapstructure:"name"`
	BaseURL     string  `mapstructure:"base_url"` // empty uses the provider default
	APIKey      string  `mapstructure:"api_key"`  // "${VAR}" is read from the environment
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"` // 0 leaves it to the provider
}

// AgentConfig configures the agent loop.
type AgentConfig struct {
	MaxSteps int      `mapstructure:"max_steps"`
	Stop     []string `mapstructure:"stop"`

	// Optional limits, 0 disables each.
	MaxConsecutiveToolErrors int   `mapstructure:"max_consecutive_tool_errors"`
	MaxCallsPerTool          int   `mapstructure:"max_calls_per_tool"`
	MaxInputTokens           int64 `mapstructure:"max_input_tokens"`

	// Transcript writes a YAML transcript of every run to stderr.
	Transcript bool `mapstructure:"transcript"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr      string `mapstructure:"addr"` // empty disables the endpoint
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.provider", ProviderGitHub)
	v.SetDefault("model.name", "openai/gpt-4.1-mini")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.max_tokens", 0)

	v.SetDefault("agent.max_steps", 15)
	v.SetDefault("agent.stop", []string{"\nObservation"})
	v.SetDefault("agent.max_consecutive_tool_errors", 3)
	v.SetDefault("agent.max_calls_per_tool", 0)
	v.SetDefault("agent.max_input_tokens", 0)
	v.SetDefault("agent.transcript", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.namespace", "mrkl")
}

// Load reads the config file at path, applies MRKL_* overrides and validates
// the result. An empty path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Model.APIKey = expandEnv(cfg.Model.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnv resolves a "${VAR}" or "$VAR" value. Other values are returned
// unchanged.
func expandEnv(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}
	name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(value, "$"), "{"), "}")
	return os.Getenv(name)
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderOpenAI, ProviderLangChainGo, ProviderGitHub:
	default:
		return fmt.Errorf("%w: unknown model.provider %q", ErrInvalidConfig, c.Model.Provider)
	}
	if c.Model.Name == "" {
		return fmt.Errorf("%w: model.name is required", ErrInvalidConfig)
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("%w: agent.max_steps must be positive, got %d", ErrInvalidConfig, c.Agent.MaxSteps)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Limits converts the optional agent limits into stats limits.
func (a AgentConfig) Limits() []mrkl.Limit {
	var limits []mrkl.Limit
	if a.MaxConsecutiveToolErrors > 0 {
		limits = append(limits, mrkl.Limit{
			Type:     mrkl.LimitExactKey,
			Key:      mrkl.KeyToolCallsErrorConsecutive,
			MaxValue: float64(a.MaxConsecutiveToolErrors),
		})
	}
	if a.MaxCallsPerTool > 0 {
		limits = append(limits, mrkl.Limit{
			Type:     mrkl.LimitKeyPrefix,
			Key:      mrkl.KeyToolCallsFor,
			MaxValue: float64(a.MaxCallsPerTool),
		})
	}
	if a.MaxInputTokens > 0 {
		limits = append(limits, mrkl.Limit{
			Type:     mrkl.LimitExactKey,
			Key:      mrkl.KeyInputTokens,
			MaxValue: float64(a.MaxInputTokens),
		})
	}
	return limits
}

// Build creates a zap logger writing to stderr.
func (l LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if l.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
