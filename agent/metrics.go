package agent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zero-day-ai/converse/completion"
)

// turnMetrics holds the counters recorded once per completed exchange.
// Counters come from the global meter provider; with no provider installed
// they are no-ops.
type turnMetrics struct {
	turns        metric.Int64Counter
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
}

func newTurnMetrics() *turnMetrics {
	meter := otel.Meter("github.com/zero-day-ai/converse/agent")

	turns, _ := meter.Int64Counter("converse.turns",
		metric.WithDescription("Completed conversation exchanges"),
		metric.WithUnit("{turn}"))
	input, _ := meter.Int64Counter("converse.tokens.input",
		metric.WithDescription("Input tokens consumed"),
		metric.WithUnit("{token}"))
	output, _ := meter.Int64Counter("converse.tokens.output",
		metric.WithDescription("Output tokens generated"),
		metric.WithUnit("{token}"))

	return &turnMetrics{turns: turns, inputTokens: input, outputTokens: output}
}

func (m *turnMetrics) record(ctx context.Context, modelID string, usage completion.Usage) {
	attrs := metric.WithAttributes(attribute.String("model.id", modelID))
	m.turns.Add(ctx, 1, attrs)
	m.inputTokens.Add(ctx, int64(usage.InputTokens), attrs)
	m.outputTokens.Add(ctx, int64(usage.OutputTokens), attrs)
}
