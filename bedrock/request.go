package bedrock

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/zero-day-ai/converse/completion"
	"github.com/zero-day-ai/converse/transcript"
)

// Common errors returned by the transport layer.
var (
	// ErrTransport wraps any failure of the underlying Bedrock API call:
	// network, authentication, throttling, or request rejection.
	ErrTransport = errors.New("bedrock: transport failure")

	// ErrNoTranscript is returned when a request carries no transcript.
	ErrNoTranscript = errors.New("bedrock: request without transcript")
)

// ReasoningConfig is the per-request reasoning toggle and token budget.
// It is injected into each outbound request and never persisted in the
// transcript.
type ReasoningConfig struct {
	// Enabled turns extended reasoning on for this request.
	Enabled bool

	// BudgetTokens is the token ceiling allocated to the reasoning trace.
	BudgetTokens int
}

// Request is the convention-neutral completion request. Both senders carry
// the same semantic payload; only the wire shape differs.
type Request struct {
	// ModelID is the Bedrock model identifier.
	ModelID string

	// System is the system prompt, empty for none.
	System string

	// Transcript holds the conversation turns to send.
	Transcript *transcript.Transcript

	// MaxTokens limits the generated response length.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64

	// TopP controls nucleus sampling.
	TopP float64

	// Reasoning is the reasoning toggle and budget for this request.
	Reasoning ReasoningConfig
}

// validate checks the request before any wire encoding happens.
func (r Request) validate() error {
	if r.Transcript == nil {
		return ErrNoTranscript
	}
	if r.ModelID == "" {
		return fmt.Errorf("%w: empty model id", ErrTransport)
	}
	return nil
}

// Sender submits one completion request and returns the model's reply as a
// convention-neutral envelope. Implementations do not retry; errors
// propagate unchanged wrapped in ErrTransport.
type Sender interface {
	Send(ctx context.Context, req Request) (completion.Envelope, error)
}

// NewClient builds a Bedrock runtime client for the given region using the
// default AWS credential chain.
func NewClient(ctx context.Context, region string) (*bedrockruntime.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", ErrTransport, err)
	}
	return bedrockruntime.NewFromConfig(cfg), nil
}
