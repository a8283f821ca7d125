package kv

import (
	"context"
	"errors"
)

// Store is the durable key/value store the cart, favorites and order
// history are written through to. The in-memory state stays authoritative:
// callers treat a failed Save as a degradation, not a hard error.
type Store interface {
	// Load returns the raw JSON stored under key and whether the key exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save stores raw JSON under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error
}

// ErrUnavailable wraps any backend failure so callers can downgrade it
// to a warning with errors.Is.
var ErrUnavailable = errors.New("persistence unavailable")
