// Package session persists conversation transcripts across process
// restarts.
//
// A Store keeps one Record per session ID: the transcript plus enough
// metadata to resume the conversation with the same agent and model. Two
// implementations exist: MemoryStore for tests and single-process use, and
// RedisStore backed by go-redis for shared or durable storage.
//
// Records serialize through the transcript's own JSON form, so anything a
// Store hands back has already passed the transcript's structural
// validation.
package session
