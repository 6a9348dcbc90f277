// Package bedrock implements the transport layer for Amazon Bedrock Claude
// models, covering both call conventions against the same model family.
//
// Two senders exist:
//
//   - ConverseSender uses the high-level Converse API; reasoning is enabled
//     through additionalModelRequestFields.thinking.
//   - InvokeSender uses the low-level InvokeModel API with the native
//     Anthropic Messages request body; reasoning is enabled through the
//     body's thinking field.
//
// Both senders accept the same Request and return the same
// completion.Envelope, so callers can switch conventions without touching
// the rest of the pipeline. Request building is pure; the only side effect
// is the API round-trip itself.
//
// API failures (authentication, throttling, malformed requests) wrap
// ErrTransport and propagate unchanged. Retry and backoff policy belongs to
// the caller or the AWS SDK configuration, not to this package.
package bedrock
