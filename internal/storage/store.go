// Package storage keeps small key/value records (the bearer token) between runs.
package storage

import "context"

// TokenKey is the key the bearer token is stored under
const TokenKey = "token"

// Store is the interface that wraps durable key/value access.
//
// Implementations are safe for concurrent use within one process. Concurrent
// writers in different processes are not coordinated, the last write wins.
type Store interface {
	// Method Get returns the value stored under key.
	//
	// A missing key is not an error: Get returns an empty string, false and a nil error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Method Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Method Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
