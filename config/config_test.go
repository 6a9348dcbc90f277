package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "anthropic.claude-3-7-sonnet-20250219-v1:0", cfg.Model.ID)
	assert.Equal(t, 4096, cfg.Model.MaxTokens)
	assert.Equal(t, APIConverse, cfg.AWS.API)
	assert.True(t, cfg.ReasoningEnabled())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "converse.yaml", `
agent:
  name: research-helper
  system: "You summarize papers."
model:
  id: anthropic.claude-3-5-sonnet-20241022-v2:0
  max_tokens: 2048
  enable_reasoning: false
aws:
  region: eu-west-1
  api: invoke
session:
  redis_url: redis://localhost:6379
  ttl: 720h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "research-helper", cfg.Agent.Name)
	assert.Equal(t, "You summarize papers.", cfg.Agent.System)
	assert.Equal(t, "anthropic.claude-3-5-sonnet-20241022-v2:0", cfg.Model.ID)
	assert.Equal(t, 2048, cfg.Model.MaxTokens)
	assert.False(t, cfg.ReasoningEnabled())
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, APIInvoke, cfg.AWS.API)
	assert.Equal(t, "redis://localhost:6379", cfg.Session.RedisURL)
	assert.Equal(t, 720*time.Hour, cfg.Session.GetTTL())

	// Unset fields keep their defaults.
	assert.Equal(t, 0.9, cfg.Model.TopP)
	assert.Equal(t, 2000, cfg.Model.ReasoningBudgetTokens)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "converse.yml"), []byte(`
agent:
  name: from-dir
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dir", cfg.Agent.Name)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	_, err = Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no converse.yaml")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "converse.yaml", "agent: [broken")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONVERSE_AWS_REGION", "ap-southeast-2")
	t.Setenv("CONVERSE_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0")
	t.Setenv("CONVERSE_API", "invoke")
	t.Setenv("CONVERSE_MAX_TOKENS", "1024")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", cfg.AWS.Region)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.Model.ID)
	assert.Equal(t, APIInvoke, cfg.AWS.API)
	assert.Equal(t, 1024, cfg.Model.MaxTokens)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model id", func(c *Config) { c.Model.ID = "" }},
		{"zero max tokens", func(c *Config) { c.Model.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 1.5 }},
		{"negative top_p", func(c *Config) { c.Model.TopP = -0.1 }},
		{"empty region", func(c *Config) { c.AWS.Region = "" }},
		{"unknown api", func(c *Config) { c.AWS.API = "streaming" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSessionTTLInvalid(t *testing.T) {
	s := SessionConfig{TTL: "soon"}
	assert.Equal(t, time.Duration(0), s.GetTTL())
}
