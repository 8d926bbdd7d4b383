// Package postgres provides the PostgreSQL storage backend: a key-value
// table implementing store.KeyValueStore, the goose migrations that create
// it, and the mapping from driver errors to store errors.
package postgres
