// Package storage provides the durable key-value store backing the story
// service. Values are opaque byte blobs; callers own serialization.
//
// Two implementations exist: Memory for tests and SQLite for production,
// selected by the composition root and injected by constructor.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a minimal durable key-value interface. Writes must be atomic per
// key: a Get after a successful Put returns exactly the bytes written.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}
