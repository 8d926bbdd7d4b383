package tasklist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/events"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/store"
)

// Persister writes the task list to a key-value store each time it changes.
type Persister struct {
	kv     store.KeyValueStore
	key    string
	logger *slog.Logger
}

// NewPersister creates a Persister that stores the serialized list under key.
// It panics if kv is nil, mirroring the store constructors.
func NewPersister(kv store.KeyValueStore, key string, logger *slog.Logger) *Persister {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if key == "" {
		key = store.DefaultTasksKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Persister{
		kv:     kv,
		key:    key,
		logger: logger.With(slog.String("component", "task_persister")),
	}
}

var _ events.EventHandler = (*Persister)(nil)

// HandleEvent implements events.EventHandler by writing event.Tasks to storage.
func (p *Persister) HandleEvent(ctx context.Context, event *events.TaskListChangedEvent) error {
	log := logger.FromContextOrDefault(ctx, p.logger)

	data, err := Serialize(event.Tasks)
	if err != nil {
		log.Error("failed to serialize task list",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	if err := p.kv.Set(ctx, p.key, data); err != nil {
		log.Warn("failed to persist task list",
			slog.String("error", err.Error()),
			slog.String("key", p.key),
			slog.String("operation", string(event.Operation)))
		return fmt.Errorf("failed to persist task list: %w", err)
	}

	log.Debug("task list persisted",
		slog.String("key", p.key),
		slog.String("operation", string(event.Operation)),
		slog.Int("count", len(event.Tasks)))
	return nil
}

// Hydrate loads the persisted task list under key into s and returns it.
//
// It never fails: a missing key, an unreadable backend or a malformed
// payload all leave s empty, with a warning logged for the latter two.
func Hydrate(
	ctx context.Context,
	s *Store,
	kv store.KeyValueStore,
	key string,
	logger *slog.Logger,
) []domain.Task {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = store.DefaultTasksKey
	}
	log := logger.With(slog.String("component", "task_hydrator"), slog.String("key", key))

	value, found, err := kv.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read persisted task list, starting empty",
			slog.String("error", err.Error()))
		s.reset()
		return s.List()
	}
	if !found {
		log.Info("no persisted task list, starting empty")
		s.reset()
		return s.List()
	}

	tasks, err := s.Restore(value)
	if err != nil {
		log.Warn("persisted task list is malformed, starting empty",
			slog.String("error", err.Error()))
		return tasks
	}

	log.Info("task list hydrated", slog.Int("count", len(tasks)))
	return tasks
}
