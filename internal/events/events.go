package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/domain"
)

// Operation names the mutation that produced a TaskListChangedEvent.
type Operation string

// Mutations that change the task list.
const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationToggle Operation = "toggle"
)

// TaskListChangedEvent carries the task list as it stands after a mutation.
type TaskListChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Operation is the mutation that was applied
	Operation Operation `json:"operation"`

	// TaskID is the task the mutation targeted
	TaskID uuid.UUID `json:"task_id"`

	// Tasks is the full ordered snapshot after the mutation. Handlers must not modify it.
	Tasks []domain.Task `json:"tasks"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskListChangedEvent creates an event for op on taskID with the given snapshot.
func NewTaskListChangedEvent(op Operation, taskID uuid.UUID, tasks []domain.Task) *TaskListChangedEvent {
	return &TaskListChangedEvent{
		ID:        uuid.New(),
		Operation: op,
		TaskID:    taskID,
		Tasks:     tasks,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskListChangedEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *TaskListChangedEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskListChangedEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the store to publish changes without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskListChangedEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskListChangedEvent) error { return nil }
