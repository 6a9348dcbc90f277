package agent

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures an Agent.
type Option func(*Agent)

// WithModelConfig replaces the default model parameters.
func WithModelConfig(cfg ModelConfig) Option {
	return func(a *Agent) {
		a.model = cfg
	}
}

// WithLogger sets a custom logger for the agent.
// If not provided, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for the agent.
// When set, every turn is recorded as a span carrying the model ID and
// token usage.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Agent) {
		a.tracer = tracer
	}
}

// WithReasoning enables extended reasoning with the given token budget.
// A budget of zero keeps the configured default.
func WithReasoning(budgetTokens int) Option {
	return func(a *Agent) {
		a.model.EnableReasoning = true
		if budgetTokens > 0 {
			a.model.ReasoningBudgetTokens = budgetTokens
		}
	}
}

// WithoutReasoning disables extended reasoning.
func WithoutReasoning() Option {
	return func(a *Agent) {
		a.model.EnableReasoning = false
	}
}

// WithShowReasoning makes the agent log each turn's reasoning trace at
// info level. The trace is still returned on the Turn either way.
func WithShowReasoning() Option {
	return func(a *Agent) {
		a.showReasoning = true
	}
}

// WithContextWindow overrides the history token budget.
func WithContextWindow(tokens int) Option {
	return func(a *Agent) {
		a.model.ContextWindowTokens = tokens
	}
}
