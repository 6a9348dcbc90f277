package transcript

import "github.com/zero-day-ai/converse/content"

// truncationNotice replaces the oldest surviving message after truncation
// so the model knows earlier context was dropped.
const truncationNotice = "[Earlier history has been truncated.]"

// truncationNoticeTokens is the flat estimate charged for the notice.
const truncationNoticeTokens = 25

// EstimateTokens gives a rough token estimate for a string. Bedrock does
// not expose a token counter, so length/4 with a floor of 10 is used, the
// same approximation the Converse history keeps for system prompts.
func EstimateTokens(s string) int {
	n := len(s) / 4
	if n < 10 {
		return 10
	}
	return n
}

// SetBaseTokens sets the fixed token cost counted against the context
// window before any turn, typically EstimateTokens(systemPrompt).
func (t *Transcript) SetBaseTokens(n int) {
	t.totalTokens += n - t.baseTokens
	t.baseTokens = n
}

// RecordUsage records the token usage reported for one completed
// user/assistant exchange. Call it once per assistant turn.
func (t *Transcript) RecordUsage(inputTokens, outputTokens int) {
	t.turnTokens = append(t.turnTokens, usagePair{input: inputTokens, output: outputTokens})
	t.totalTokens += inputTokens + outputTokens
}

// TokenCount returns the running token total, including the base cost.
func (t *Transcript) TokenCount() int {
	return t.totalTokens
}

// Truncate drops the oldest user/assistant pairs until the running token
// total fits within limit, then replaces the new head with a truncation
// notice. Role alternation is preserved: messages are always removed in
// pairs from the front, so the transcript still begins with a user turn.
// A transcript already within the limit is left untouched.
func (t *Transcript) Truncate(limit int) {
	if t.totalTokens <= limit {
		return
	}

	for len(t.turnTokens) > 0 && len(t.messages) >= 2 && t.totalTokens > limit {
		t.messages = t.messages[2:]
		pair := t.turnTokens[0]
		t.turnTokens = t.turnTokens[1:]
		t.totalTokens -= pair.input + pair.output

		if len(t.messages) > 0 && len(t.turnTokens) > 0 {
			head := t.turnTokens[0]
			t.messages[0] = Message{
				Role:   RoleUser,
				Blocks: []content.Block{content.Text{Text: truncationNotice}},
			}
			t.turnTokens[0] = usagePair{input: truncationNoticeTokens, output: head.output}
			t.totalTokens += truncationNoticeTokens - head.input
		}
	}
}
