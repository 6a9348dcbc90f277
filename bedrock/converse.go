package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/zero-day-ai/converse/completion"
	"github.com/zero-day-ai/converse/content"
	"github.com/zero-day-ai/converse/transcript"
)

// ConverseAPI is the subset of the Bedrock runtime client used by
// ConverseSender. *bedrockruntime.Client satisfies it.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// ConverseSender submits requests through the high-level Converse API.
type ConverseSender struct {
	api ConverseAPI
}

// NewConverseSender wraps a Bedrock runtime client in a Converse-convention
// sender.
func NewConverseSender(api ConverseAPI) *ConverseSender {
	return &ConverseSender{api: api}
}

// NewConverse builds a client for the region and returns a ConverseSender
// on top of it.
func NewConverse(ctx context.Context, region string) (*ConverseSender, error) {
	client, err := NewClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewConverseSender(client), nil
}

// Send implements Sender over the Converse API.
func (s *ConverseSender) Send(ctx context.Context, req Request) (completion.Envelope, error) {
	input, err := buildConverseInput(req)
	if err != nil {
		return completion.Envelope{}, err
	}

	out, err := s.api.Converse(ctx, input)
	if err != nil {
		return completion.Envelope{}, fmt.Errorf("%w: converse %s: %w", ErrTransport, req.ModelID, err)
	}

	return envelopeFromConverse(out), nil
}

// buildConverseInput maps the convention-neutral request onto the Converse
// API shape. It is pure: no I/O, no mutation of the request.
func buildConverseInput(req Request) (*bedrockruntime.ConverseInput, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	messages, err := converseMessages(req.Transcript)
	if err != nil {
		return nil, err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(req.ModelID),
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(req.MaxTokens)),
			Temperature: aws.Float32(float32(req.Temperature)),
			TopP:        aws.Float32(float32(req.TopP)),
		},
	}

	if req.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.System},
		}
	}

	if req.Reasoning.Enabled {
		input.AdditionalModelRequestFields = document.NewLazyDocument(map[string]any{
			"thinking": map[string]any{
				"type":          "enabled",
				"budget_tokens": req.Reasoning.BudgetTokens,
			},
		})
	}

	return input, nil
}

func converseMessages(t *transcript.Transcript) ([]types.Message, error) {
	src := t.Messages()
	out := make([]types.Message, 0, len(src))
	for _, m := range src {
		role := types.ConversationRoleUser
		if m.Role == transcript.RoleAssistant {
			role = types.ConversationRoleAssistant
		}

		blocks := make([]types.ContentBlock, 0, len(m.Blocks))
		for _, b := range m.Blocks {
			cb, err := converseBlock(b)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, cb)
		}
		out = append(out, types.Message{Role: role, Content: blocks})
	}
	return out, nil
}

func converseBlock(b content.Block) (types.ContentBlock, error) {
	switch v := b.(type) {
	case content.Text:
		return &types.ContentBlockMemberText{Value: v.Text}, nil
	case content.Image:
		return &types.ContentBlockMemberImage{Value: types.ImageBlock{
			Format: types.ImageFormat(v.Format.String()),
			Source: &types.ImageSourceMemberBytes{Value: v.Data},
		}}, nil
	case content.Document:
		return &types.ContentBlockMemberDocument{Value: types.DocumentBlock{
			Format: types.DocumentFormat(v.Format.String()),
			Name:   aws.String(v.Name),
			Source: &types.DocumentSourceMemberBytes{Value: v.Data},
		}}, nil
	default:
		return nil, fmt.Errorf("%w: unknown block variant %T", content.ErrUnsupportedFormat, b)
	}
}

// envelopeFromConverse maps the Converse API output to the neutral
// envelope, preserving block order and tagging reasoning content.
func envelopeFromConverse(out *bedrockruntime.ConverseOutput) completion.Envelope {
	env := completion.Envelope{
		StopReason: string(out.StopReason),
	}

	if out.Usage != nil {
		env.Usage = completion.Usage{
			InputTokens:  int(aws.ToInt32(out.Usage.InputTokens)),
			OutputTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
		}
	}

	message, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return env
	}

	for _, block := range message.Value.Content {
		switch v := block.(type) {
		case *types.ContentBlockMemberText:
			env.Blocks = append(env.Blocks, completion.Block{
				Kind: completion.BlockText,
				Text: v.Value,
			})
		case *types.ContentBlockMemberReasoningContent:
			if rt, ok := v.Value.(*types.ReasoningContentBlockMemberReasoningText); ok {
				env.Blocks = append(env.Blocks, completion.Block{
					Kind: completion.BlockReasoning,
					Text: aws.ToString(rt.Value.Text),
				})
			}
		}
	}
	return env
}
