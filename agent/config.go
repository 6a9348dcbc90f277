package agent

// DefaultModelID is the model used when none is configured.
const DefaultModelID = "anthropic.claude-3-7-sonnet-20250219-v1:0"

// ModelConfig holds the model parameters applied to every request the
// agent issues.
type ModelConfig struct {
	// ModelID is the Bedrock model identifier.
	ModelID string

	// MaxTokens limits the generated response length.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64

	// TopP controls nucleus sampling.
	TopP float64

	// ContextWindowTokens is the history budget; older turns are truncated
	// away once the running total exceeds it.
	ContextWindowTokens int

	// EnableReasoning turns extended reasoning on for every request.
	EnableReasoning bool

	// ReasoningBudgetTokens is the token ceiling for the reasoning trace.
	ReasoningBudgetTokens int
}

// DefaultModelConfig returns the default model parameters.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		ModelID:               DefaultModelID,
		MaxTokens:             4096,
		Temperature:           1.0,
		TopP:                  0.9,
		ContextWindowTokens:   180000,
		EnableReasoning:       true,
		ReasoningBudgetTokens: 2000,
	}
}
