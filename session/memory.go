package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use.
//
// Records are kept in serialized form, so a caller mutating a transcript
// after Save cannot corrupt the stored copy.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Save stores the record, overwriting any previous record with the same ID.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal record %s: %w", rec.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = data
	return nil
}

// Load returns the record stored under id.
func (s *MemoryStore) Load(_ context.Context, id string) (Record, error) {
	if err := validateID(id); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return decodeRecord(data, id)
}

// Delete removes the record stored under id. Deleting an unknown ID is not
// an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// List returns the IDs of all stored sessions.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeRecord unmarshals a stored record, routing the transcript through
// its validating decoder.
func decodeRecord(data []byte, id string) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("session: decode record %s: %w", id, err)
	}
	return rec, nil
}
