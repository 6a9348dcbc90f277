package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/converse/transcript"
)

// Common errors returned by session stores.
var (
	// ErrNotFound is returned when no record exists for the given ID.
	ErrNotFound = errors.New("session: not found")

	// ErrInvalidID is returned when a session ID is empty or malformed.
	ErrInvalidID = errors.New("session: invalid id")
)

// Record is one persisted conversation.
type Record struct {
	// ID is the session identifier.
	ID string `json:"id"`

	// AgentName is the name of the agent that owns the conversation.
	AgentName string `json:"agent_name"`

	// Model is the Bedrock model identifier the conversation ran against.
	Model string `json:"model"`

	// UpdatedAt is the time of the last save.
	UpdatedAt time.Time `json:"updated_at"`

	// Transcript holds the conversation turns.
	Transcript *transcript.Transcript `json:"transcript"`
}

// Store persists conversation records by session ID.
//
// Save overwrites any existing record under the same ID. Load returns
// ErrNotFound for unknown IDs. List returns the IDs of all live sessions
// in no particular order.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// validateID rejects IDs that would produce ambiguous storage keys.
func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, " \t\n:") {
		return ErrInvalidID
	}
	return nil
}
