package transcript

import (
	"errors"
	"fmt"

	"github.com/zero-day-ai/converse/content"
)

// Common errors returned by transcript operations.
var (
	// ErrRoleOrder is returned when an append would create two consecutive
	// messages with the same role. This is always a caller bug.
	ErrRoleOrder = errors.New("transcript: role alternation violated")

	// ErrEmptyTranscript is returned when an assistant message is appended
	// before any user turn exists.
	ErrEmptyTranscript = errors.New("transcript: assistant turn before any user turn")

	// ErrNoContent is returned when a message carries no content blocks.
	ErrNoContent = errors.New("transcript: message has no content blocks")
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message authored by the user.
	RoleUser Role = "user"

	// RoleAssistant is a message authored by the model.
	RoleAssistant Role = "assistant"
)

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns a string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Message is one turn in a conversation. Blocks are ordered; insertion
// order is the reading order presented to the model.
type Message struct {
	Role   Role
	Blocks []content.Block
}

// Transcript is the full ordered sequence of messages in one conversation.
// It is mutated only through the append operations and Clear, and enforces
// role alternation at every observation point.
//
// A Transcript belongs to exactly one conversation. It is not safe for
// concurrent use; distinct conversations must use distinct transcripts.
type Transcript struct {
	messages []Message

	// Token accounting for context-window truncation.
	baseTokens  int
	totalTokens int
	turnTokens  []usagePair
}

type usagePair struct {
	input  int
	output int
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// AppendUser appends a user message with the given blocks. It fails with
// ErrRoleOrder if the last message is already a user turn, and with
// ErrNoContent if no blocks are given. On failure the transcript is left
// unchanged.
func (t *Transcript) AppendUser(blocks ...content.Block) error {
	if len(t.messages) > 0 && t.messages[len(t.messages)-1].Role == RoleUser {
		return fmt.Errorf("%w: consecutive %s turns", ErrRoleOrder, RoleUser)
	}
	return t.append(RoleUser, blocks)
}

// AppendAssistant appends an assistant message with the given blocks. It
// fails with ErrEmptyTranscript if no user turn exists yet, and with
// ErrRoleOrder if the last message is already an assistant turn. On failure
// the transcript is left unchanged.
func (t *Transcript) AppendAssistant(blocks ...content.Block) error {
	if len(t.messages) == 0 {
		return ErrEmptyTranscript
	}
	if t.messages[len(t.messages)-1].Role == RoleAssistant {
		return fmt.Errorf("%w: consecutive %s turns", ErrRoleOrder, RoleAssistant)
	}
	return t.append(RoleAssistant, blocks)
}

// append validates the blocks and commits the message. Validation happens
// entirely before the first mutation so failed appends cannot leave a
// partial message behind.
func (t *Transcript) append(role Role, blocks []content.Block) error {
	if len(blocks) == 0 {
		return ErrNoContent
	}

	documents := 0
	for _, b := range blocks {
		if err := content.Validate(b); err != nil {
			return err
		}
		if _, ok := b.(content.Document); ok {
			documents++
		}
	}
	if documents > content.MaxDocumentsPerMessage {
		return fmt.Errorf("%w: %d documents in one message, limit is %d",
			content.ErrAttachmentLimit, documents, content.MaxDocumentsPerMessage)
	}

	t.messages = append(t.messages, Message{
		Role:   role,
		Blocks: append([]content.Block(nil), blocks...),
	})
	return nil
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the message sequence. Mutating the returned
// slice does not affect the transcript.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	for i, m := range t.messages {
		out[i] = Message{
			Role:   m.Role,
			Blocks: append([]content.Block(nil), m.Blocks...),
		}
	}
	return out
}

// Last returns the most recent message and true, or a zero message and
// false when the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Clone creates a deep copy of the transcript, including its token
// accounting. The copy is an independent conversation: mutating one side
// never affects the other.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		messages:    t.Messages(),
		baseTokens:  t.baseTokens,
		totalTokens: t.totalTokens,
		turnTokens:  append([]usagePair(nil), t.turnTokens...),
	}
	return clone
}

// Clear resets the transcript to the empty state. Clearing an already-empty
// transcript is not an error. The base token estimate survives so a cleared
// conversation keeps its system-prompt accounting.
func (t *Transcript) Clear() {
	t.messages = nil
	t.turnTokens = nil
	t.totalTokens = t.baseTokens
}
