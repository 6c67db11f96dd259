// Package repository holds the latest play snapshot of every tracked game.
package repository

import (
	"context"

	"github.com/okian/huddle/internal/domain/types"
)

// Store provides read/write access to game snapshots.
type Store interface {
	// Put stores snap for its game. The version is bumped only when the
	// plays differ from the stored ones; changed reports which happened.
	Put(ctx context.Context, snap types.Snapshot) (stored types.Snapshot, changed bool, err error)

	// Get returns the snapshot of gameID or ErrNotFound.
	Get(ctx context.Context, gameID string) (types.Snapshot, error)

	// Delete drops gameID. Deleting an unknown game is a no-op.
	Delete(ctx context.Context, gameID string)

	// GameIDs lists stored games in ascending order.
	GameIDs(ctx context.Context) []string

	Count(ctx context.Context) int
}
