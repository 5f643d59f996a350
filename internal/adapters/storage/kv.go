package storage

import (
	"context"
	"errors"
)

// Fixed storage keys. The two collection keys live in durable storage; the
// session key lives only in tab-scoped storage.
const (
	ClubsKey   = "campus-pulse-clubs"
	EventsKey  = "campus-pulse-events"
	SessionKey = "campus-pulse-auth-club"
)

// ErrUnavailable reports that the storage medium rejected an operation
// (closed, full, or unreachable).
var ErrUnavailable = errors.New("storage unavailable")

// KV is a string key-value medium, the shape of browser local/session storage.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
