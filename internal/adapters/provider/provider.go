// Package provider defines the contract every play-by-play source adapter
// implements.
//
// Adapters own their failure handling: transport and decoding problems are
// logged inside the adapter, FetchPlays then returns an empty slice with a
// nil error and CanHandleGame returns false. Callers still treat a non-nil
// error as "try the next provider".
package provider

import (
	"context"

	"github.com/okian/huddle/internal/domain/model"
)

// Provider fetches and normalizes plays from one upstream source.
type Provider interface {
	// Name identifies the provider in logs, metrics and responses.
	Name() string

	// CanHandleGame reports whether the provider should be asked for game.
	CanHandleGame(ctx context.Context, game model.GameInfo) (bool, error)

	// FetchPlays returns game's plays in the provider's own order.
	FetchPlays(ctx context.Context, game model.GameInfo) ([]model.StandardPlay, error)
}

// Invalidator is implemented by providers that cache upstream payloads.
type Invalidator interface {
	Invalidate(ctx context.Context, gameID string)
}

// InvalidateAll drops cached payloads for gameID on every provider that
// keeps any.
func InvalidateAll(ctx context.Context, providers []Provider, gameID string) {
	for _, p := range providers {
		if inv, ok := p.(Invalidator); ok {
			inv.Invalidate(ctx, gameID)
		}
	}
}

// Names lists the provider names in order.
func Names(providers []Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}
