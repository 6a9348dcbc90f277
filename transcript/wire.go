package transcript

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zero-day-ai/converse/content"
)

// Format selects the wire convention a transcript serializes into.
type Format int

const (
	// FormatConverse is the Bedrock Converse API convention: blocks keyed
	// by their variant name, payloads nested under "source".
	FormatConverse Format = iota

	// FormatNative is the native Anthropic Messages convention: blocks
	// tagged with a "type" field and base64 sources carrying a media type.
	FormatNative
)

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatConverse:
		return "converse"
	case FormatNative:
		return "native"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// WireMessage is one serialized message: a role and the convention-specific
// block encodings in their original order.
type WireMessage struct {
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

// WireMessages serializes the transcript into the given convention. The
// operation is pure: it never mutates the transcript, and calling it twice
// yields identical output.
func (t *Transcript) WireMessages(f Format) ([]WireMessage, error) {
	marshal := marshalBlockConverse
	if f == FormatNative {
		marshal = marshalBlockNative
	}

	out := make([]WireMessage, 0, len(t.messages))
	for _, m := range t.messages {
		wm := WireMessage{
			Role:    m.Role.String(),
			Content: make([]json.RawMessage, 0, len(m.Blocks)),
		}
		for _, b := range m.Blocks {
			raw, err := marshal(b)
			if err != nil {
				return nil, err
			}
			wm.Content = append(wm.Content, raw)
		}
		out = append(out, wm)
	}
	return out, nil
}

// Wire returns the JSON encoding of the whole message sequence in the given
// convention.
func (t *Transcript) Wire(f Format) ([]byte, error) {
	messages, err := t.WireMessages(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(messages)
}

// Converse-convention block shapes.

type converseTextBlock struct {
	Text string `json:"text"`
}

type converseImageBlock struct {
	Image converseImage `json:"image"`
}

type converseImage struct {
	Format string         `json:"format"`
	Source converseSource `json:"source"`
}

type converseDocumentBlock struct {
	Document converseDocument `json:"document"`
}

type converseDocument struct {
	Format string         `json:"format"`
	Name   string         `json:"name"`
	Source converseSource `json:"source"`
}

type converseSource struct {
	Bytes string `json:"bytes"`
}

func marshalBlockConverse(b content.Block) (json.RawMessage, error) {
	switch v := b.(type) {
	case content.Text:
		return json.Marshal(converseTextBlock{Text: v.Text})
	case content.Image:
		return json.Marshal(converseImageBlock{Image: converseImage{
			Format: v.Format.String(),
			Source: converseSource{Bytes: base64.StdEncoding.EncodeToString(v.Data)},
		}})
	case content.Document:
		return json.Marshal(converseDocumentBlock{Document: converseDocument{
			Format: v.Format.String(),
			Name:   v.Name,
			Source: converseSource{Bytes: base64.StdEncoding.EncodeToString(v.Data)},
		}})
	default:
		return nil, fmt.Errorf("%w: unknown block variant %T", content.ErrUnsupportedFormat, b)
	}
}

// Native-convention block shapes. These double as the persistence schema in
// persist.go, so every field needed for a lossless round-trip is present.

type nativeBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *nativeSource `json:"source,omitempty"`
}

type nativeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
	Name      string `json:"name,omitempty"`
}

func marshalBlockNative(b content.Block) (json.RawMessage, error) {
	nb, err := nativeFromBlock(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nb)
}

func nativeFromBlock(b content.Block) (nativeBlock, error) {
	switch v := b.(type) {
	case content.Text:
		return nativeBlock{Type: "text", Text: v.Text}, nil
	case content.Image:
		return nativeBlock{Type: "image", Source: &nativeSource{
			Type:      "base64",
			MediaType: v.Format.MediaType(),
			Data:      base64.StdEncoding.EncodeToString(v.Data),
		}}, nil
	case content.Document:
		return nativeBlock{Type: "document", Source: &nativeSource{
			Type:      "base64",
			MediaType: v.Format.MediaType(),
			Data:      base64.StdEncoding.EncodeToString(v.Data),
			Name:      v.Name,
		}}, nil
	default:
		return nativeBlock{}, fmt.Errorf("%w: unknown block variant %T", content.ErrUnsupportedFormat, b)
	}
}

func blockFromNative(nb nativeBlock) (content.Block, error) {
	switch nb.Type {
	case "text":
		return content.Text{Text: nb.Text}, nil
	case "image":
		if nb.Source == nil {
			return nil, fmt.Errorf("%w: image block without source", content.ErrUnsupportedFormat)
		}
		format, ok := cutMediaType(nb.Source.MediaType, "image/")
		if !ok || !content.ImageFormat(format).IsValid() {
			return nil, fmt.Errorf("%w: image media type %q", content.ErrUnsupportedFormat, nb.Source.MediaType)
		}
		data, err := base64.StdEncoding.DecodeString(nb.Source.Data)
		if err != nil {
			return nil, fmt.Errorf("transcript: decode image payload: %w", err)
		}
		return content.Image{Format: content.ImageFormat(format), Data: data}, nil
	case "document":
		if nb.Source == nil {
			return nil, fmt.Errorf("%w: document block without source", content.ErrUnsupportedFormat)
		}
		format, ok := cutMediaType(nb.Source.MediaType, "application/")
		if !ok || !content.DocumentFormat(format).IsValid() {
			return nil, fmt.Errorf("%w: document media type %q", content.ErrUnsupportedFormat, nb.Source.MediaType)
		}
		data, err := base64.StdEncoding.DecodeString(nb.Source.Data)
		if err != nil {
			return nil, fmt.Errorf("transcript: decode document payload: %w", err)
		}
		return content.Document{
			Format: content.DocumentFormat(format),
			Name:   nb.Source.Name,
			Data:   data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: block type %q", content.ErrUnsupportedFormat, nb.Type)
	}
}

func cutMediaType(mediaType, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(mediaType, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
