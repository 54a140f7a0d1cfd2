package storage

import (
	"context"
)

// Storage defines the persistence interface for the world snapshot.
// The world is a single document, stored and returned as encoded JSON so
// the loader can see which keys an older save is missing.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// LoadSnapshot returns (nil, nil) when nothing has been saved yet
	LoadSnapshot(ctx context.Context) ([]byte, error)
	// SaveSnapshot replaces any previous snapshot wholesale
	SaveSnapshot(ctx context.Context, data []byte) error
	DeleteSnapshot(ctx context.Context) error
}
