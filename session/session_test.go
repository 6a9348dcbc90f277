package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/converse/content"
	"github.com/zero-day-ai/converse/transcript"
)

// setupRedisStore creates a miniredis instance and returns a connected
// RedisStore.
func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		TTL:            ttl,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		mr.Close()
	})

	return store, mr
}

func sampleRecord(t *testing.T, id string) Record {
	t.Helper()

	tr := transcript.New()
	require.NoError(t, tr.AppendUser(content.Text{Text: "hello"}))
	require.NoError(t, tr.AppendAssistant(content.Text{Text: "hi there"}))

	return Record{
		ID:         id,
		AgentName:  "helper",
		Model:      "anthropic.claude-3-7-sonnet-20250219-v1:0",
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
		Transcript: tr,
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.NoError(t, validateID(a))
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"abc-123", false},
		{NewID(), false},
		{"", true},
		{"has space", true},
		{"has:colon", true},
		{"has\nnewline", true},
	}

	for _, tt := range tests {
		err := validateID(tt.id)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidID, "id %q", tt.id)
		} else {
			assert.NoError(t, err, "id %q", tt.id)
		}
	}
}

// storeUnderTest lets both implementations share one behavioral suite.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	if name == "memory" {
		return NewMemoryStore()
	}
	store, _ := setupRedisStore(t, 0)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	for _, name := range []string{"memory", "redis"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			rec := sampleRecord(t, NewID())
			require.NoError(t, store.Save(ctx, rec))

			got, err := store.Load(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, rec.AgentName, got.AgentName)
			assert.Equal(t, rec.Model, got.Model)
			require.NotNil(t, got.Transcript)
			assert.Equal(t, rec.Transcript.Messages(), got.Transcript.Messages())
		})
	}
}

func TestStoreLoadMissing(t *testing.T) {
	for _, name := range []string{"memory", "redis"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			_, err := store.Load(context.Background(), "never-saved")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for _, name := range []string{"memory", "redis"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			rec := sampleRecord(t, NewID())
			require.NoError(t, store.Save(ctx, rec))
			require.NoError(t, store.Delete(ctx, rec.ID))

			_, err := store.Load(ctx, rec.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again is not an error.
			assert.NoError(t, store.Delete(ctx, rec.ID))
		})
	}
}

func TestStoreList(t *testing.T) {
	for _, name := range []string{"memory", "redis"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			ids, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids)

			first := sampleRecord(t, NewID())
			second := sampleRecord(t, NewID())
			require.NoError(t, store.Save(ctx, first))
			require.NoError(t, store.Save(ctx, second))

			ids, err = store.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
		})
	}
}

func TestStoreRejectsInvalidID(t *testing.T) {
	for _, name := range []string{"memory", "redis"} {
		t.Run(name, func(t *testing.T) {
			store := storeUnderTest(t, name)
			ctx := context.Background()

			assert.ErrorIs(t, store.Save(ctx, sampleRecord(t, "")), ErrInvalidID)
			_, err := store.Load(ctx, "bad id")
			assert.ErrorIs(t, err, ErrInvalidID)
			assert.ErrorIs(t, store.Delete(ctx, "bad:id"), ErrInvalidID)
		})
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord(t, "stable-id")
	require.NoError(t, store.Save(ctx, rec))

	require.NoError(t, rec.Transcript.AppendUser(content.Text{Text: "more"}))
	require.NoError(t, rec.Transcript.AppendAssistant(content.Text{Text: "sure"}))
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, "stable-id")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Transcript.Len())
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord(t, "iso")
	require.NoError(t, store.Save(ctx, rec))

	// Mutating the caller's transcript after Save must not leak into the
	// stored copy.
	require.NoError(t, rec.Transcript.AppendUser(content.Text{Text: "later"}))

	got, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Transcript.Len())
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, time.Minute)
	ctx := context.Background()

	rec := sampleRecord(t, NewID())
	require.NoError(t, store.Save(ctx, rec))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The expired ID falls out of the listing.
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStoreConnectionFailure(t *testing.T) {
	_, err := NewRedisStore(RedisOptions{
		URL:            "redis://localhost:1",
		ConnectTimeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}
