// Package service holds the interaction controller: the state machine that
// turns user intents (type, submit, edit, cancel, delete, toggle) into Task
// Store operations while tracking the draft text and the task being edited.
//
// The controller has two modes. In Creating mode a submit appends a new task;
// in Editing mode it rewrites the text of the task under edit and returns to
// Creating. Presentation adapters call one intent method per user gesture and
// re-render from Snapshot afterwards.
//
// The controller depends only on the TaskStore interface, so tests can drive
// it with a mock and the server wires in *tasklist.Store.
package service
