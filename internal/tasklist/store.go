package tasklist

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/events"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// Store is the in-memory ordered task collection.
//
// Mutations never edit a published slice: each one builds a new slice and
// swaps it in, then notifies the emitter with that slice. Event handlers may
// read the store but must not mutate it from inside HandleEvent.
type Store struct {
	// writeMu serializes mutate+emit so events leave in the order state changed.
	writeMu sync.Mutex

	mu    sync.RWMutex
	tasks []domain.Task

	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewStore creates an empty Store that reports mutations to emitter.
// A nil emitter discards events; a nil logger uses slog.Default().
func NewStore(emitter events.EventEmitter, logger *slog.Logger) *Store {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		tasks:   []domain.Task{},
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Create appends a new incomplete task with the given text and returns it.
// Invalid UTF-8 in text is replaced; callers reject blank input first.
func (s *Store) Create(ctx context.Context, text string) domain.Task {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	task := domain.Task{
		ID:   domain.NewTaskID(),
		Text: domain.NormalizeText(text),
	}

	s.mu.Lock()
	next := make([]domain.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, task)
	s.tasks = next
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.Int("count", len(next)))

	s.notify(ctx, events.OperationCreate, task.ID, next)
	return task
}

// Update replaces the text of the task with the given id, keeping its
// position and completion state. Returns false if no task matches.
func (s *Store) Update(ctx context.Context, id uuid.UUID, text string) bool {
	return s.replace(ctx, events.OperationUpdate, id, func(t domain.Task) domain.Task {
		return t.WithText(domain.NormalizeText(text))
	})
}

// ToggleCompleted flips the completion state of the task with the given id.
// Returns false if no task matches.
func (s *Store) ToggleCompleted(ctx context.Context, id uuid.UUID) bool {
	return s.replace(ctx, events.OperationToggle, id, domain.Task.Toggled)
}

// Delete removes the task with the given id. Returns false if no task matches.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	idx := indexOf(s.tasks, id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return false
	}
	next := make([]domain.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.tasks = next
	s.mu.Unlock()

	log.Debug("task deleted",
		slog.String("task_id", id.String()),
		slog.Int("count", len(next)))

	s.notify(ctx, events.OperationDelete, id, next)
	return true
}

// List returns a copy of the tasks in creation order.
func (s *Store) List() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id uuid.UUID) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOf(s.tasks, id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return s.tasks[idx], true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Serialize encodes the current task list in its persisted form.
func (s *Store) Serialize() (string, error) {
	return Serialize(s.List())
}

// Restore replaces the task list with the decoded payload. Restoring is
// hydration, not a mutation, so no event is emitted.
//
// A malformed payload yields a *ParseError and leaves the store empty; it is
// never partially applied.
func (s *Store) Restore(serialized string) ([]domain.Task, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tasks, err := Parse(serialized)

	s.mu.Lock()
	if err != nil {
		s.tasks = []domain.Task{}
	} else {
		s.tasks = tasks
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("failed to restore task list, starting empty",
			slog.String("error", err.Error()))
		return []domain.Task{}, err
	}

	s.logger.Debug("task list restored", slog.Int("count", len(tasks)))
	return s.List(), nil
}

// reset empties the store without emitting an event.
func (s *Store) reset() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.tasks = []domain.Task{}
	s.mu.Unlock()
}

// replace swaps the task matching id for fn(task) in a fresh slice.
func (s *Store) replace(
	ctx context.Context,
	op events.Operation,
	id uuid.UUID,
	fn func(domain.Task) domain.Task,
) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	idx := indexOf(s.tasks, id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debug("task not found",
			slog.String("task_id", id.String()),
			slog.String("operation", string(op)))
		return false
	}
	next := make([]domain.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = fn(next[idx])
	s.tasks = next
	s.mu.Unlock()

	log.Debug("task changed",
		slog.String("task_id", id.String()),
		slog.String("operation", string(op)))

	s.notify(ctx, op, id, next)
	return true
}

// notify runs the change hook. Persistence is best-effort, so failures are
// logged and otherwise ignored. The hook runs detached from ctx cancellation:
// a mutation already applied in memory must still reach storage after the
// caller has gone away.
func (s *Store) notify(ctx context.Context, op events.Operation, id uuid.UUID, snapshot []domain.Task) {
	event := events.NewTaskListChangedEvent(op, id, snapshot)
	if err := s.emitter.EmitEvent(context.WithoutCancel(ctx), event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("change hook failed",
			slog.String("error", err.Error()),
			slog.String("operation", string(op)),
			slog.String("task_id", id.String()))
	}
}

func indexOf(tasks []domain.Task, id uuid.UUID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
