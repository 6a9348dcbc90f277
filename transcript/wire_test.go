package transcript

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/converse/content"
)

func buildMixedTranscript(t *testing.T) *Transcript {
	t.Helper()
	tr := New()
	require.NoError(t, tr.AppendUser(
		content.Text{Text: "describe these"},
		content.Image{Format: content.ImagePNG, Data: []byte{0x89, 0x50, 0x4e, 0x47}},
		content.Document{Format: content.DocumentPDF, Name: "report.pdf", Data: []byte("%PDF-1.7")},
	))
	require.NoError(t, tr.AppendAssistant(content.Text{Text: "A chart and a report."}))
	return tr
}

func TestWireConverse(t *testing.T) {
	tr := buildMixedTranscript(t)

	raw, err := tr.Wire(FormatConverse)
	require.NoError(t, err)

	var messages []map[string]any
	require.NoError(t, json.Unmarshal(raw, &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "assistant", messages[1]["role"])

	blocks := messages[0]["content"].([]any)
	require.Len(t, blocks, 3)

	text := blocks[0].(map[string]any)
	assert.Equal(t, "describe these", text["text"])

	image := blocks[1].(map[string]any)["image"].(map[string]any)
	assert.Equal(t, "png", image["format"])
	source := image["source"].(map[string]any)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47}), source["bytes"])

	document := blocks[2].(map[string]any)["document"].(map[string]any)
	assert.Equal(t, "pdf", document["format"])
	assert.Equal(t, "report.pdf", document["name"])
}

func TestWireNative(t *testing.T) {
	tr := buildMixedTranscript(t)

	raw, err := tr.Wire(FormatNative)
	require.NoError(t, err)

	var messages []map[string]any
	require.NoError(t, json.Unmarshal(raw, &messages))
	require.Len(t, messages, 2)

	blocks := messages[0]["content"].([]any)
	require.Len(t, blocks, 3)

	text := blocks[0].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "describe these", text["text"])

	image := blocks[1].(map[string]any)
	assert.Equal(t, "image", image["type"])
	imgSource := image["source"].(map[string]any)
	assert.Equal(t, "base64", imgSource["type"])
	assert.Equal(t, "image/png", imgSource["media_type"])

	document := blocks[2].(map[string]any)
	assert.Equal(t, "document", document["type"])
	docSource := document["source"].(map[string]any)
	assert.Equal(t, "application/pdf", docSource["media_type"])
	assert.Equal(t, "report.pdf", docSource["name"])
}

func TestWireIsDeterministic(t *testing.T) {
	tr := buildMixedTranscript(t)

	for _, f := range []Format{FormatConverse, FormatNative} {
		first, err := tr.Wire(f)
		require.NoError(t, err)
		second, err := tr.Wire(f)
		require.NoError(t, err)
		assert.Equal(t, first, second, "format %s", f)
	}

	// Serialization must not mutate the transcript.
	assert.Equal(t, 2, tr.Len())
}

func TestWireConventionsCarrySameInformation(t *testing.T) {
	tr := buildMixedTranscript(t)

	converse, err := tr.WireMessages(FormatConverse)
	require.NoError(t, err)
	native, err := tr.WireMessages(FormatNative)
	require.NoError(t, err)

	require.Equal(t, len(converse), len(native))
	for i := range converse {
		assert.Equal(t, converse[i].Role, native[i].Role)
		assert.Equal(t, len(converse[i].Content), len(native[i].Content))
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "converse", FormatConverse.String())
	assert.Equal(t, "native", FormatNative.String())
}
