// Package converse provides a conversational-agent SDK for Claude models
// hosted on Amazon Bedrock.
//
// The SDK wraps both Bedrock call conventions for the same model family:
// the high-level Converse API and the lower-level InvokeModel API with the
// native Anthropic request body. Both conventions share one transcript
// abstraction, so conversations built against one sender can be replayed
// against the other without loss.
//
// # Core Concepts
//
// The SDK is organized around a small set of packages:
//
//   - agent: the orchestrator that drives single-shot and chat turns
//   - transcript: the ordered, role-alternating conversation state machine
//   - content: text, image, and document content blocks plus file encoding
//   - completion: response envelopes and reasoning/answer extraction
//   - bedrock: the transport senders for the two call conventions
//   - session: conversation persistence (in-memory or Redis)
//
// # Getting Started
//
// Create a sender and an agent, then drive a conversation:
//
//	sender, err := bedrock.NewConverse(ctx, "us-east-1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	a := agent.New("assistant", "You are a helpful assistant.", sender,
//		agent.WithReasoning(2000),
//	)
//
//	turn, err := a.Chat(ctx, "What is the capital of France?")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(turn.Answer)
//
// # Attachments
//
// User turns may carry base64-encoded images and documents alongside text.
// The content package validates formats and size ceilings before any request
// is issued:
//
//	turn, err := a.ChatWithFiles(ctx, "Summarize this report.",
//		nil, []string{"report.pdf"})
//
// # Reasoning
//
// When reasoning is enabled a token budget is injected into each outbound
// request, and the model's reasoning trace is surfaced separately from its
// final answer. The trace is never replayed into the transcript on later
// turns.
//
// # Error Handling
//
// Errors are classified by the Error type in this package and by sentinel
// errors in the subpackages; both work with errors.Is and errors.As.
package converse
