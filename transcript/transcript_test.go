package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/converse/content"
)

func TestAppendScenario(t *testing.T) {
	tr := New()

	// Assistant cannot speak first.
	err := tr.AppendAssistant(content.Text{Text: "Hello!"})
	require.ErrorIs(t, err, ErrEmptyTranscript)
	assert.Equal(t, 0, tr.Len())

	// First user turn succeeds.
	require.NoError(t, tr.AppendUser(content.Text{Text: "Hi"}))
	assert.Equal(t, 1, tr.Len())

	// A second consecutive user turn is rejected and the length is unchanged.
	err = tr.AppendUser(content.Text{Text: "again"})
	require.ErrorIs(t, err, ErrRoleOrder)
	assert.Equal(t, 1, tr.Len())

	// The assistant reply completes the pair.
	require.NoError(t, tr.AppendAssistant(content.Text{Text: "Hello!"}))
	assert.Equal(t, 2, tr.Len())

	// And a consecutive assistant turn is rejected symmetrically.
	err = tr.AppendAssistant(content.Text{Text: "more"})
	require.ErrorIs(t, err, ErrRoleOrder)
	assert.Equal(t, 2, tr.Len())
}

func TestAppendRejectsEmptyMessage(t *testing.T) {
	tr := New()
	require.ErrorIs(t, tr.AppendUser(), ErrNoContent)
	assert.Equal(t, 0, tr.Len())
}

func TestAppendValidatesBlocks(t *testing.T) {
	tr := New()

	err := tr.AppendUser(content.Image{Format: "tiff", Data: []byte{1}})
	require.ErrorIs(t, err, content.ErrUnsupportedFormat)
	assert.Equal(t, 0, tr.Len(), "failed append must not mutate the transcript")

	err = tr.AppendUser(content.Document{Format: content.DocumentTXT, Name: "a.txt"})
	require.ErrorIs(t, err, content.ErrAttachmentLimit)
	assert.Equal(t, 0, tr.Len())
}

func TestAppendDocumentCountCeiling(t *testing.T) {
	tr := New()

	blocks := []content.Block{content.Text{Text: "read these"}}
	for i := 0; i < content.MaxDocumentsPerMessage; i++ {
		blocks = append(blocks, content.Document{
			Format: content.DocumentTXT,
			Name:   "doc.txt",
			Data:   []byte("x"),
		})
	}
	require.NoError(t, tr.AppendUser(blocks...))

	tr2 := New()
	blocks = append(blocks, content.Document{
		Format: content.DocumentTXT,
		Name:   "one-too-many.txt",
		Data:   []byte("x"),
	})
	err := tr2.AppendUser(blocks...)
	require.ErrorIs(t, err, content.ErrAttachmentLimit)
	assert.Equal(t, 0, tr2.Len())
}

func TestBlockOrderIsPreserved(t *testing.T) {
	tr := New()
	require.NoError(t, tr.AppendUser(
		content.Text{Text: "look at this"},
		content.Image{Format: content.ImagePNG, Data: []byte{0x89}},
		content.Document{Format: content.DocumentCSV, Name: "data.csv", Data: []byte("a,b")},
	))

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Blocks, 3)
	assert.IsType(t, content.Text{}, msgs[0].Blocks[0])
	assert.IsType(t, content.Image{}, msgs[0].Blocks[1])
	assert.IsType(t, content.Document{}, msgs[0].Blocks[2])
}

func TestMessagesReturnsCopy(t *testing.T) {
	tr := New()
	require.NoError(t, tr.AppendUser(content.Text{Text: "hi"}))

	msgs := tr.Messages()
	msgs[0].Role = RoleAssistant
	msgs[0].Blocks[0] = content.Text{Text: "mutated"}

	fresh := tr.Messages()
	assert.Equal(t, RoleUser, fresh[0].Role)
	assert.Equal(t, content.Text{Text: "hi"}, fresh[0].Blocks[0])
}

func TestClear(t *testing.T) {
	tr := New()
	require.NoError(t, tr.AppendUser(content.Text{Text: "hi"}))
	require.NoError(t, tr.AppendAssistant(content.Text{Text: "hello"}))

	tr.Clear()
	assert.Equal(t, 0, tr.Len())

	// Clearing an empty transcript is fine.
	tr.Clear()
	assert.Equal(t, 0, tr.Len())

	// After clearing, the conversation restarts from the user.
	require.ErrorIs(t, tr.AppendAssistant(content.Text{Text: "hm"}), ErrEmptyTranscript)
	require.NoError(t, tr.AppendUser(content.Text{Text: "fresh start"}))
}

func TestLast(t *testing.T) {
	tr := New()
	_, ok := tr.Last()
	assert.False(t, ok)

	require.NoError(t, tr.AppendUser(content.Text{Text: "hi"}))
	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, RoleUser, last.Role)
}
