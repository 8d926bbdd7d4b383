// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests are skipped unless a database URL is configured.
package testdb
