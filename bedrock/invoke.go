package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/zero-day-ai/converse/completion"
	"github.com/zero-day-ai/converse/transcript"
)

// anthropicVersion is the Bedrock-hosted Anthropic Messages API version.
const anthropicVersion = "bedrock-2023-05-31"

// InvokeAPI is the subset of the Bedrock runtime client used by
// InvokeSender. *bedrockruntime.Client satisfies it.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// InvokeSender submits requests through the low-level InvokeModel API with
// the native Anthropic Messages body.
type InvokeSender struct {
	api InvokeAPI
}

// NewInvokeSender wraps a Bedrock runtime client in a native-convention
// sender.
func NewInvokeSender(api InvokeAPI) *InvokeSender {
	return &InvokeSender{api: api}
}

// NewInvoke builds a client for the region and returns an InvokeSender on
// top of it.
func NewInvoke(ctx context.Context, region string) (*InvokeSender, error) {
	client, err := NewClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewInvokeSender(client), nil
}

// Send implements Sender over the InvokeModel API.
func (s *InvokeSender) Send(ctx context.Context, req Request) (completion.Envelope, error) {
	body, err := buildInvokeBody(req)
	if err != nil {
		return completion.Envelope{}, err
	}

	out, err := s.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return completion.Envelope{}, fmt.Errorf("%w: invoke %s: %w", ErrTransport, req.ModelID, err)
	}

	return envelopeFromInvoke(out.Body)
}

// invokeBody is the native Anthropic Messages request body.
type invokeBody struct {
	AnthropicVersion string                   `json:"anthropic_version"`
	MaxTokens        int                      `json:"max_tokens"`
	Temperature      float64                  `json:"temperature"`
	TopP             float64                  `json:"top_p"`
	Messages         []transcript.WireMessage `json:"messages"`
	System           string                   `json:"system,omitempty"`
	Thinking         *invokeThinking          `json:"thinking,omitempty"`
}

type invokeThinking struct {
	Enabled   bool `json:"enabled"`
	MaxTokens int  `json:"max_tokens"`
}

// buildInvokeBody maps the convention-neutral request onto the native
// Anthropic Messages body. It is pure.
func buildInvokeBody(req Request) ([]byte, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	messages, err := req.Transcript.WireMessages(transcript.FormatNative)
	if err != nil {
		return nil, err
	}

	body := invokeBody{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		Messages:         messages,
		System:           req.System,
	}

	if req.Reasoning.Enabled {
		body.Thinking = &invokeThinking{
			Enabled:   true,
			MaxTokens: req.Reasoning.BudgetTokens,
		}
	}

	return json.Marshal(body)
}

// invokeResponse mirrors the native response body. Thinking blocks have
// carried their text under different field names across model revisions,
// so all known spellings are read.
type invokeResponse struct {
	Content    []invokeResponseBlock `json:"content"`
	StopReason string                `json:"stop_reason"`
	Usage      invokeUsage           `json:"usage"`

	// Thinking is the top-level reasoning spelling some model revisions
	// emit instead of a thinking content block. When present it wins.
	Thinking string `json:"thinking"`
}

type invokeResponseBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
	Content  string `json:"content"`
}

type invokeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// envelopeFromInvoke parses the native response body into the neutral
// envelope, preserving block order.
func envelopeFromInvoke(body []byte) (completion.Envelope, error) {
	var resp invokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return completion.Envelope{}, fmt.Errorf("%w: decode invoke response: %w", ErrTransport, err)
	}

	env := completion.Envelope{
		StopReason: resp.StopReason,
		Usage: completion.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			env.Blocks = append(env.Blocks, completion.Block{
				Kind: completion.BlockText,
				Text: block.Text,
			})
		case "thinking":
			text := block.Thinking
			if text == "" {
				text = block.Content
			}
			env.Blocks = append(env.Blocks, completion.Block{
				Kind: completion.BlockReasoning,
				Text: text,
			})
		}
	}

	if resp.Thinking != "" {
		kept := env.Blocks[:0]
		for _, b := range env.Blocks {
			if b.Kind != completion.BlockReasoning {
				kept = append(kept, b)
			}
		}
		env.Blocks = append([]completion.Block{{
			Kind: completion.BlockReasoning,
			Text: resp.Thinking,
		}}, kept...)
	}
	return env, nil
}
