// Package agent implements the orchestrator that drives conversations
// against a Bedrock Claude model.
//
// An Agent owns exactly one conversation: a system prompt, a model
// configuration, a transport sender, and the persistent transcript. Two
// modes exist:
//
//   - Stateless (Run, RunWithFiles): each call builds a one-off transcript
//     that is discarded afterwards. Suitable for single-shot queries.
//   - Stateful (Chat, ChatWithFiles, and the convenience entry points):
//     each call extends the agent's owned transcript, so every call
//     continues the same conversation.
//
// Every turn follows the same pipeline: attachments are encoded and
// validated first (a failure aborts before any transcript mutation), the
// user message is appended with blocks ordered text first, then images,
// then documents, the history is truncated to the context window, the
// reasoning budget is injected into the outbound request, and the reply is
// split into reasoning trace and answer. Only the answer text is appended
// to the transcript; the reasoning trace is surfaced to the caller but
// never replayed into history, so repeated traces cannot inflate the
// context.
//
// # Failure Semantics
//
// A transport or malformed-response failure leaves the already-appended
// user turn in place and appends no assistant turn. This asymmetry is
// deliberate: the transcript records that the user asked. A caller that
// blindly re-sends after such a failure will hit a role-order error; it
// must either clear the history or treat the transcript as already
// advanced.
//
// # Concurrency
//
// One agent is one conversation with one logical writer; agents are not
// safe for concurrent use. Independent agents share no state and may run
// concurrently.
package agent
