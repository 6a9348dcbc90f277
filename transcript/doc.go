// Package transcript implements the ordered-message state machine that
// holds a conversation's history.
//
// A Transcript is a sequence of Messages that must alternate strictly
// between the user and assistant roles, starting with user. Every append is
// validated against that invariant and against the content rules (at least
// one block per message, document count ceiling); a failed append leaves the
// transcript unchanged.
//
// # Wire Formats
//
// The same transcript serializes into either Bedrock call convention:
//
//   - FormatConverse: the Converse API block shape, e.g. {"text": ...} and
//     {"image": {"format": ..., "source": {"bytes": ...}}}
//   - FormatNative: the native Anthropic Messages block shape, e.g.
//     {"type": "text", ...} and {"type": "image", "source": {"type":
//     "base64", "media_type": ..., "data": ...}}
//
// Both conventions carry identical information content; only the block
// tagging differs. Serialization is pure and preserves block order exactly.
//
// # Persistence
//
// Export and Import round-trip a transcript through JSON with base64-encoded
// binary payloads. Import revalidates the role sequence, so a tampered file
// cannot produce a transcript that violates the alternation invariant.
//
// # Token Accounting
//
// RecordUsage and Truncate implement context-window management: when the
// running token total exceeds the configured window, the oldest
// user/assistant pairs are dropped and the new head is replaced with a
// truncation notice, without ever breaking role alternation.
//
// A Transcript is owned by a single conversation and is not safe for
// concurrent mutation; the turn-taking protocol itself serializes access.
package transcript
