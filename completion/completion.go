// Package completion defines the response envelope returned by a model
// call and the extractor that splits it into a reasoning trace and a final
// answer.
//
// Both Bedrock call conventions produce the same envelope: an ordered
// sequence of blocks, some tagged as reasoning, a stop reason, and token
// usage counters. Split walks the blocks in order, joining reasoning blocks
// into the trace and concatenating text blocks into the answer. A missing
// reasoning trace is a normal outcome; a missing answer is a protocol
// violation by the transport layer.
package completion

import (
	"errors"
	"strings"
)

// ErrMalformedResponse is returned when an envelope carries no
// answer-bearing block at all. This signals a protocol violation by the
// transport layer, not a recoverable condition.
var ErrMalformedResponse = errors.New("completion: response carries no answer text")

// BlockKind tags a response block as reasoning or answer text.
type BlockKind string

const (
	// BlockText is final answer text.
	BlockText BlockKind = "text"

	// BlockReasoning is the model's intermediate step-by-step deliberation.
	BlockReasoning BlockKind = "reasoning"
)

// Block is one tagged content block of a response envelope.
type Block struct {
	Kind BlockKind
	Text string
}

// Usage tracks token consumption for one request.
type Usage struct {
	// InputTokens is the number of tokens in the request.
	InputTokens int

	// OutputTokens is the number of tokens generated in the response.
	OutputTokens int
}

// Total returns the combined input and output token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Envelope is the raw model reply: ordered content blocks, the reason
// generation stopped, and token usage counters.
type Envelope struct {
	Blocks     []Block
	StopReason string
	Usage      Usage
}

// Extraction is the result of splitting an envelope: the reasoning trace
// (nil when the model produced none) and the final answer text.
type Extraction struct {
	// Reasoning is the concatenated reasoning trace, or nil when no block
	// was tagged as reasoning. Absent and empty are distinct states.
	Reasoning *string

	// Answer is the concatenated final answer text.
	Answer string
}

// HasReasoning reports whether the envelope carried a reasoning trace.
func (e Extraction) HasReasoning() bool {
	return e.Reasoning != nil
}

// ReasoningText returns the reasoning trace, or the empty string when none
// was produced.
func (e Extraction) ReasoningText() string {
	if e.Reasoning == nil {
		return ""
	}
	return *e.Reasoning
}

// Split partitions an envelope's blocks into a reasoning trace and the
// final answer.
//
// Reasoning blocks are joined in order with single spaces; text blocks are
// concatenated in order. An envelope with no reasoning block yields a nil
// Reasoning, which is a normal outcome: reasoning may be disabled, or the
// model may have answered directly. An envelope with no text block at all
// fails with ErrMalformedResponse.
func Split(env Envelope) (Extraction, error) {
	var reasoning []string
	var answer strings.Builder
	hasAnswer := false

	for _, b := range env.Blocks {
		switch b.Kind {
		case BlockReasoning:
			reasoning = append(reasoning, b.Text)
		case BlockText:
			answer.WriteString(b.Text)
			hasAnswer = true
		}
	}

	if !hasAnswer {
		return Extraction{}, ErrMalformedResponse
	}

	out := Extraction{Answer: answer.String()}
	if reasoning != nil {
		joined := strings.Join(reasoning, " ")
		out.Reasoning = &joined
	}
	return out, nil
}
