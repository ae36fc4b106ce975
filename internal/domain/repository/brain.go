package repository

import "context"

// Brain is a key/value blob store that is loaded once at startup and
// flushed explicitly.
type Brain interface {
	// Get returns the blob stored under key.
	Get(key string) ([]byte, bool)
	// Set replaces the blob stored under key in memory.
	Set(key string, blob []byte)
	// Save flushes pending Sets to durable storage.
	Save(ctx context.Context) error
	// Load reads durable storage into memory and then emits the ready event.
	// It may be called more than once.
	Load(ctx context.Context) error
	// OnReady registers fn to run after every Load.
	OnReady(fn func())
}
