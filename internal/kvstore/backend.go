// Package kvstore provides the text key-value backends the cart is persisted to.
package kvstore

import (
	"context"
)

// Backend is an opaque string store addressed by key.
type Backend interface {
	// Read returns the stored value and whether the key exists.
	Read(ctx context.Context, key string) (string, bool, error)
	// Write stores value under key, replacing any prior value.
	Write(ctx context.Context, key, value string) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
