// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying key-value storage from the task
// list's core logic, allowing the state machine to stay independent of where
// its serialized form ends up (memory, a local file, or PostgreSQL).
package store
