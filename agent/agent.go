package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/converse"
	"github.com/zero-day-ai/converse/bedrock"
	"github.com/zero-day-ai/converse/completion"
	"github.com/zero-day-ai/converse/content"
	"github.com/zero-day-ai/converse/transcript"
)

// Turn is the caller-facing result of one completed exchange.
type Turn struct {
	// Envelope is the raw response: every block in provider order, before
	// the reasoning/answer split.
	Envelope completion.Envelope

	// Reasoning is the model's reasoning trace, nil when the model emitted
	// none.
	Reasoning *string

	// Answer is the final answer text.
	Answer string

	// Usage is the token usage reported for this exchange.
	Usage completion.Usage

	// StopReason is the provider's stop reason, e.g. "end_turn".
	StopReason string
}

// HasReasoning reports whether the turn carries a reasoning trace.
func (t Turn) HasReasoning() bool {
	return t.Reasoning != nil
}

// ReasoningText returns the reasoning trace, or "" when there is none.
func (t Turn) ReasoningText() string {
	if t.Reasoning == nil {
		return ""
	}
	return *t.Reasoning
}

// Agent drives a conversation against a Bedrock Claude model. It owns the
// system prompt, the model configuration, and the conversation transcript.
//
// Agents are not safe for concurrent use; see the package documentation.
type Agent struct {
	name          string
	system        string
	sender        bedrock.Sender
	model         ModelConfig
	logger        *slog.Logger
	tracer        trace.Tracer
	metrics       *turnMetrics
	history       *transcript.Transcript
	showReasoning bool
}

// New creates an agent with the given name, system prompt, and transport
// sender. The default model configuration applies unless overridden by
// options.
func New(name, system string, sender bedrock.Sender, opts ...Option) *Agent {
	a := &Agent{
		name:    name,
		system:  system,
		sender:  sender,
		model:   DefaultModelConfig(),
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("converse/agent"),
		history: transcript.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.metrics = newTurnMetrics()
	a.history.SetBaseTokens(transcript.EstimateTokens(system))
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string { return a.name }

// System returns the agent's system prompt.
func (a *Agent) System() string { return a.system }

// Model returns the current model configuration.
func (a *Agent) Model() ModelConfig { return a.model }

// SetReasoning toggles extended reasoning for subsequent turns.
func (a *Agent) SetReasoning(enabled bool) {
	a.model.EnableReasoning = enabled
}

// SetReasoningBudget sets the reasoning token budget for subsequent turns.
// Non-positive values are ignored.
func (a *Agent) SetReasoningBudget(tokens int) {
	if tokens > 0 {
		a.model.ReasoningBudgetTokens = tokens
	}
}

// Chat sends a text-only user turn on the agent's conversation.
func (a *Agent) Chat(ctx context.Context, prompt string) (Turn, error) {
	return a.turn(ctx, "Agent.Chat", a.history, prompt, nil, nil)
}

// ChatWithFiles sends a user turn carrying file attachments on the agent's
// conversation. Image and document paths are encoded per their extensions;
// any encoding failure aborts the turn before the transcript is touched.
func (a *Agent) ChatWithFiles(ctx context.Context, prompt string, imagePaths, documentPaths []string) (Turn, error) {
	return a.turn(ctx, "Agent.ChatWithFiles", a.history, prompt, imagePaths, documentPaths)
}

// Run sends a single text-only exchange on a throwaway transcript. The
// agent's conversation history is not consulted and not modified.
func (a *Agent) Run(ctx context.Context, prompt string) (Turn, error) {
	return a.turn(ctx, "Agent.Run", a.scratch(), prompt, nil, nil)
}

// RunWithFiles is Run with file attachments.
func (a *Agent) RunWithFiles(ctx context.Context, prompt string, imagePaths, documentPaths []string) (Turn, error) {
	return a.turn(ctx, "Agent.RunWithFiles", a.scratch(), prompt, imagePaths, documentPaths)
}

// scratch builds a one-off transcript carrying the same base token cost as
// the agent's conversation.
func (a *Agent) scratch() *transcript.Transcript {
	t := transcript.New()
	t.SetBaseTokens(transcript.EstimateTokens(a.system))
	return t
}

// turn runs the full exchange pipeline against the given transcript.
//
// A failure after the user turn is appended leaves that turn in place; the
// transcript then ends on a user message and the caller must clear or
// restore history before retrying. See the package documentation.
func (a *Agent) turn(ctx context.Context, op string, hist *transcript.Transcript, prompt string, imagePaths, documentPaths []string) (Turn, error) {
	ctx, span := a.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("agent.name", a.name),
		attribute.String("model.id", a.model.ModelID),
	))
	defer span.End()

	blocks, err := buildBlocks(prompt, imagePaths, documentPaths)
	if err != nil {
		return Turn{}, a.fail(span, op, err)
	}

	if err := hist.AppendUser(blocks...); err != nil {
		return Turn{}, a.fail(span, op, err)
	}
	hist.Truncate(a.model.ContextWindowTokens)

	env, err := a.sender.Send(ctx, bedrock.Request{
		ModelID:     a.model.ModelID,
		System:      a.system,
		Transcript:  hist,
		MaxTokens:   a.model.MaxTokens,
		Temperature: a.model.Temperature,
		TopP:        a.model.TopP,
		Reasoning: bedrock.ReasoningConfig{
			Enabled:      a.model.EnableReasoning,
			BudgetTokens: a.model.ReasoningBudgetTokens,
		},
	})
	if err != nil {
		return Turn{}, a.fail(span, op, err)
	}

	ext, err := completion.Split(env)
	if err != nil {
		return Turn{}, a.fail(span, op, err)
	}

	if err := hist.AppendAssistant(content.Text{Text: ext.Answer}); err != nil {
		return Turn{}, a.fail(span, op, err)
	}
	hist.RecordUsage(env.Usage.InputTokens, env.Usage.OutputTokens)

	if a.showReasoning && ext.Reasoning != nil {
		a.logger.Info("reasoning trace",
			"agent", a.name,
			"trace", *ext.Reasoning)
	}

	a.metrics.record(ctx, a.model.ModelID, env.Usage)
	span.SetAttributes(
		attribute.Int("tokens.input", env.Usage.InputTokens),
		attribute.Int("tokens.output", env.Usage.OutputTokens),
		attribute.String("stop_reason", env.StopReason),
	)
	a.logger.Debug("turn completed",
		"agent", a.name,
		"model", a.model.ModelID,
		"input_tokens", env.Usage.InputTokens,
		"output_tokens", env.Usage.OutputTokens,
		"stop_reason", env.StopReason,
		"reasoning", ext.Reasoning != nil)

	return Turn{
		Envelope:   env,
		Reasoning:  ext.Reasoning,
		Answer:     ext.Answer,
		Usage:      env.Usage,
		StopReason: env.StopReason,
	}, nil
}

// fail records the error on the span and wraps it into a kinded error.
func (a *Agent) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	a.logger.Warn("turn failed", "agent", a.name, "op", op, "error", err)
	return &converse.Error{Op: op, Kind: kindOf(err), Err: err}
}

// failOutsideTurn wraps errors raised before any turn span exists.
func (a *Agent) failOutsideTurn(op string, err error) error {
	a.logger.Warn("turn failed", "agent", a.name, "op", op, "error", err)
	return &converse.Error{Op: op, Kind: kindOf(err), Err: err}
}

// kindOf maps sentinel errors from the lower layers onto error kinds.
func kindOf(err error) string {
	switch {
	case errors.Is(err, transcript.ErrRoleOrder):
		return converse.KindRoleOrder
	case errors.Is(err, transcript.ErrEmptyTranscript):
		return converse.KindEmptyTranscript
	case errors.Is(err, content.ErrUnsupportedFormat):
		return converse.KindUnsupportedFormat
	case errors.Is(err, content.ErrAttachmentLimit):
		return converse.KindAttachmentLimit
	case errors.Is(err, completion.ErrMalformedResponse):
		return converse.KindMalformedResponse
	case errors.Is(err, bedrock.ErrTransport):
		return converse.KindTransport
	default:
		return converse.KindValidation
	}
}

// buildBlocks assembles a user message: the prompt text first, then images,
// then documents. All attachments are encoded before anything is returned,
// so a failure produces no partial message.
func buildBlocks(prompt string, imagePaths, documentPaths []string) ([]content.Block, error) {
	blocks := []content.Block{content.Text{Text: prompt}}

	images, err := content.EncodeImages(imagePaths)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, images...)

	documents, err := content.EncodeDocuments(documentPaths)
	if err != nil {
		return nil, err
	}
	blocks = append(blocks, documents...)

	return blocks, nil
}

// SplitFiles partitions paths into image and document paths by extension.
// An unrecognized extension fails the whole batch.
func SplitFiles(paths []string) (images, documents []string, err error) {
	for _, p := range paths {
		kind, err := content.Classify(p)
		if err != nil {
			return nil, nil, err
		}
		switch kind {
		case content.KindImage:
			images = append(images, p)
		case content.KindDocument:
			documents = append(documents, p)
		}
	}
	return images, documents, nil
}

// History returns a copy of the conversation messages.
func (a *Agent) History() []transcript.Message {
	return a.history.Messages()
}

// HistoryLen returns the number of messages in the conversation.
func (a *Agent) HistoryLen() int {
	return a.history.Len()
}

// TokenCount returns the conversation's running token total.
func (a *Agent) TokenCount() int {
	return a.history.TokenCount()
}

// ClearHistory drops all conversation messages. The system prompt's base
// token cost is retained.
func (a *Agent) ClearHistory() {
	a.history.Clear()
}

// Snapshot returns an independent copy of the conversation transcript,
// suitable for persistence.
func (a *Agent) Snapshot() *transcript.Transcript {
	return a.history.Clone()
}

// Restore replaces the conversation with a copy of t, re-applying the
// system prompt's base token cost. A nil t resets to an empty conversation.
func (a *Agent) Restore(t *transcript.Transcript) {
	if t == nil {
		a.history = transcript.New()
	} else {
		a.history = t.Clone()
	}
	a.history.SetBaseTokens(transcript.EstimateTokens(a.system))
}

// historyEnvelope is the on-disk shape written by ExportHistory.
type historyEnvelope struct {
	AgentName   string                 `json:"agent_name"`
	Model       string                 `json:"model"`
	System      string                 `json:"system"`
	TotalTokens int                    `json:"total_tokens"`
	Messages    *transcript.Transcript `json:"messages"`
}

// ExportHistory writes the conversation to path as indented JSON, wrapped
// in an envelope carrying the agent name, model, system prompt, and the
// running token total.
func (a *Agent) ExportHistory(path string) error {
	data, err := json.MarshalIndent(historyEnvelope{
		AgentName:   a.name,
		Model:       a.model.ModelID,
		System:      a.system,
		TotalTokens: a.history.TokenCount(),
		Messages:    a.history,
	}, "", "  ")
	if err != nil {
		return converse.NewStorageError("Agent.ExportHistory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return converse.NewStorageError("Agent.ExportHistory", fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}

// ImportHistory replaces the conversation with one previously written by
// ExportHistory. Token accounting restarts from the system prompt's base
// cost; usage recorded before the export is not recovered.
func (a *Agent) ImportHistory(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return converse.NewStorageError("Agent.ImportHistory", fmt.Errorf("read %s: %w", path, err))
	}

	var env historyEnvelope
	env.Messages = transcript.New()
	if err := json.Unmarshal(data, &env); err != nil {
		return converse.NewStorageError("Agent.ImportHistory", fmt.Errorf("decode %s: %w", path, err))
	}

	a.Restore(env.Messages)
	return nil
}
