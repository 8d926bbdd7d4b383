// Package tasklist owns the ordered task collection and its persisted form.
//
// Store applies the four mutations (create, update, delete, toggle) by
// replacing its slice rather than editing it in place, so every snapshot
// handed out stays valid. After each successful mutation the store emits an
// events.TaskListChangedEvent; the Persister registered for that event writes
// the serialized list to a store.KeyValueStore. Hydrate performs the reverse at
// startup and falls back to an empty list when the stored payload is missing
// or malformed.
package tasklist
