// Package events provides types and interfaces for an event-driven architecture.
//
// The task list store announces every successful mutation as a
// TaskListChangedEvent. Handlers registered with an emitter react to those
// events (the persister writes the new snapshot to storage) without the store
// knowing who is listening.
//
// The primary components are:
// - TaskListChangedEvent: the settled task list after a mutation
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
