// Package config provides loading and parsing of converse.yaml
// configuration files, with environment variable overrides for deployment
// settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// API selects which Bedrock wire convention the transport uses.
const (
	APIConverse = "converse"
	APIInvoke   = "invoke"
)

// Config represents a converse.yaml configuration file.
type Config struct {
	// Agent identity and system prompt.
	Agent AgentConfig `yaml:"agent"`

	// Model parameters applied to every request.
	Model ModelConfig `yaml:"model"`

	// AWS connection settings.
	AWS AWSConfig `yaml:"aws"`

	// Session persistence settings.
	Session SessionConfig `yaml:"session,omitempty"`

	// Log output settings.
	Log LogConfig `yaml:"log,omitempty"`
}

// AgentConfig identifies the agent and its system prompt.
type AgentConfig struct {
	Name   string `yaml:"name"`
	System string `yaml:"system"`
}

// ModelConfig holds the model parameters.
type ModelConfig struct {
	ID                    string  `yaml:"id,omitempty"`
	MaxTokens             int     `yaml:"max_tokens,omitempty"`
	Temperature           float64 `yaml:"temperature,omitempty"`
	TopP                  float64 `yaml:"top_p,omitempty"`
	ContextWindowTokens   int     `yaml:"context_window_tokens,omitempty"`
	EnableReasoning       *bool   `yaml:"enable_reasoning,omitempty"`
	ReasoningBudgetTokens int     `yaml:"reasoning_budget_tokens,omitempty"`
}

// AWSConfig holds the Bedrock connection settings.
type AWSConfig struct {
	// Region is the AWS region hosting the Bedrock endpoint.
	Region string `yaml:"region,omitempty"`

	// API selects the wire convention: "converse" or "invoke".
	API string `yaml:"api,omitempty"`
}

// SessionConfig holds session persistence settings.
type SessionConfig struct {
	// RedisURL enables the Redis store when set (e.g., "redis://localhost:6379").
	// Empty means in-memory sessions only.
	RedisURL string `yaml:"redis_url,omitempty"`

	// TTL is the per-session expiry as a Go duration string (e.g., "720h").
	// Empty means sessions never expire.
	TTL string `yaml:"ttl,omitempty"`
}

// GetTTL parses the session TTL. Returns zero if not set or invalid.
func (s SessionConfig) GetTTL() time.Duration {
	if s.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(s.TTL)
	if err != nil {
		return 0
	}
	return d
}

// LogConfig holds log output settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default "info".
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json". Default "text".
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	enabled := true
	return &Config{
		Agent: AgentConfig{
			Name:   "converse",
			System: "You are a helpful assistant.",
		},
		Model: ModelConfig{
			ID:                    "anthropic.claude-3-7-sonnet-20250219-v1:0",
			MaxTokens:             4096,
			Temperature:           1.0,
			TopP:                  0.9,
			ContextWindowTokens:   180000,
			EnableReasoning:       &enabled,
			ReasoningBudgetTokens: 2000,
		},
		AWS: AWSConfig{
			Region: "us-east-1",
			API:    APIConverse,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a converse.yaml file from the given path. If the
// path is a directory, it looks for converse.yaml or converse.yml in that
// directory. Fields left unset fall back to defaults, and environment
// overrides apply last.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "converse.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "converse.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("no converse.yaml or converse.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns the default configuration with environment overrides
// applied, for running without a config file.
func FromEnv() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides deployment settings from CONVERSE_* environment
// variables. File settings win for everything else.
func (c *Config) applyEnv() {
	if v := os.Getenv("CONVERSE_AWS_REGION"); v != "" {
		c.AWS.Region = v
	}
	if v := os.Getenv("CONVERSE_API"); v != "" {
		c.AWS.API = v
	}
	if v := os.Getenv("CONVERSE_MODEL_ID"); v != "" {
		c.Model.ID = v
	}
	if v := os.Getenv("CONVERSE_REDIS_URL"); v != "" {
		c.Session.RedisURL = v
	}
	if v := os.Getenv("CONVERSE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONVERSE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Model.MaxTokens = n
		}
	}
}

// Validate checks the configuration for values that would fail at request
// time.
func (c *Config) Validate() error {
	if c.Model.ID == "" {
		return fmt.Errorf("config: model id must not be empty")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("config: temperature must be in [0, 1], got %g", c.Model.Temperature)
	}
	if c.Model.TopP < 0 || c.Model.TopP > 1 {
		return fmt.Errorf("config: top_p must be in [0, 1], got %g", c.Model.TopP)
	}
	if c.AWS.Region == "" {
		return fmt.Errorf("config: aws region must not be empty")
	}
	if c.AWS.API != APIConverse && c.AWS.API != APIInvoke {
		return fmt.Errorf("config: api must be %q or %q, got %q", APIConverse, APIInvoke, c.AWS.API)
	}
	return nil
}

// ReasoningEnabled reports the reasoning toggle, defaulting to true when
// the field is absent from the file.
func (c *Config) ReasoningEnabled() bool {
	if c.Model.EnableReasoning == nil {
		return true
	}
	return *c.Model.EnableReasoning
}
