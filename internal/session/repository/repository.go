package repository

import (
	"context"
	"time"
)

// Keys under which the token and the user record are stored.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository is durable key/value storage for client state, the local equivalent of browser storage.
type Repository interface {
	// Get returns the value for key and when it was written; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, updatedAt time.Time, ok bool, err error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
