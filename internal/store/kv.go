package store

import "context"

// DefaultTasksKey is the key the task list is persisted under unless
// configured otherwise.
const DefaultTasksKey = "tasks"

// KeyValueStore is the persistence collaborator of the task list.
// Both operations are synchronous and best-effort: callers decide whether a
// failure matters, and the task list treats write failures as non-fatal.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// found is false (and err nil) when the key has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
