package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zero-day-ai/converse/content"
)

// persistMessage is the on-disk record shape: a role plus native-convention
// tagged blocks with base64 payloads.
type persistMessage struct {
	Role    string        `json:"role"`
	Content []nativeBlock `json:"content"`
}

// MarshalJSON encodes the transcript as a sequence of {role, content}
// records with base64-encoded binary payloads.
func (t *Transcript) MarshalJSON() ([]byte, error) {
	records := make([]persistMessage, 0, len(t.messages))
	for _, m := range t.messages {
		rec := persistMessage{
			Role:    m.Role.String(),
			Content: make([]nativeBlock, 0, len(m.Blocks)),
		}
		for _, b := range m.Blocks {
			nb, err := nativeFromBlock(b)
			if err != nil {
				return nil, err
			}
			rec.Content = append(rec.Content, nb)
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// UnmarshalJSON replaces the transcript's contents with the decoded record
// sequence. Every record is replayed through the append operations, so the
// role-alternation and content invariants are revalidated; a file that
// violates them fails to import.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var records []persistMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("transcript: decode records: %w", err)
	}

	fresh := New()
	for _, rec := range records {
		blocks := make([]content.Block, 0, len(rec.Content))
		for _, nb := range rec.Content {
			b, err := blockFromNative(nb)
			if err != nil {
				return err
			}
			blocks = append(blocks, b)
		}

		var err error
		switch Role(rec.Role) {
		case RoleUser:
			err = fresh.AppendUser(blocks...)
		case RoleAssistant:
			err = fresh.AppendAssistant(blocks...)
		default:
			err = fmt.Errorf("%w: role %q", ErrRoleOrder, rec.Role)
		}
		if err != nil {
			return err
		}
	}

	t.messages = fresh.messages
	t.turnTokens = nil
	t.totalTokens = t.baseTokens
	return nil
}

// Export writes the transcript to w as indented JSON.
func (t *Transcript) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Import reads a transcript previously written by Export. The result is
// equal to the exported transcript in role sequence, block order, and block
// payload bytes.
func Import(r io.Reader) (*Transcript, error) {
	t := New()
	if err := json.NewDecoder(r).Decode(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ExportFile writes the transcript to the file at path, creating or
// truncating it.
func (t *Transcript) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("transcript: create export file: %w", err)
	}
	defer f.Close()

	if err := t.Export(f); err != nil {
		return err
	}
	return f.Close()
}

// ImportFile reads a transcript from the file at path.
func ImportFile(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: open export file: %w", err)
	}
	defer f.Close()

	return Import(f)
}
