package tasklist

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/events"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingKV returns err from every call.
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error        { return f.err }

// ctxKV fails Set once ctx is done, as database/sql backends do.
type ctxKV struct{ *memory.KVStore }

func (c ctxKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.KVStore.Set(ctx, key, value)
}

// newPersistedStore wires a store to kv through an in-memory emitter, the way the server does.
func newPersistedStore(t *testing.T, kv *memory.KVStore) *Store {
	t.Helper()
	_, l := logger.NewTestLogger(t)
	emitter := events.NewInMemoryEventEmitter(l)
	emitter.RegisterHandler(NewPersister(kv, "tasks", l))
	return NewStore(emitter, l)
}

func TestPersister_WritesAfterEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := memory.NewKVStore()
	s := newPersistedStore(t, kv)

	task := s.Create(ctx, "Buy milk")
	require.True(t, s.ToggleCompleted(ctx, task.ID))
	require.True(t, s.Update(ctx, task.ID, "Buy oat milk"))
	assert.False(t, s.Delete(ctx, domain.NewTaskID()))
	assert.Equal(t, 3, kv.Writes())

	stored, found, err := kv.Get(ctx, "tasks")
	require.NoError(t, err)
	require.True(t, found)

	parsed, err := Parse(stored)
	require.NoError(t, err)
	assert.Equal(t, s.List(), parsed)

	require.True(t, s.Delete(ctx, task.ID))
	stored, _, _ = kv.Get(ctx, "tasks")
	assert.Equal(t, "[]", stored)
}

func TestPersister_WritesAfterCallerContextCanceled(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	kv := memory.NewKVStore()
	emitter := events.NewInMemoryEventEmitter(l)
	emitter.RegisterHandler(NewPersister(ctxKV{kv}, "tasks", l))
	s := NewStore(emitter, l)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := s.Create(ctx, "Buy milk")
	require.True(t, s.ToggleCompleted(ctx, task.ID))
	assert.Equal(t, 2, kv.Writes())

	stored, found, err := kv.Get(context.Background(), "tasks")
	require.NoError(t, err)
	require.True(t, found)

	parsed, err := Parse(stored)
	require.NoError(t, err)
	assert.Equal(t, s.List(), parsed)
	assert.NotContains(t, buf.String(), "context canceled")
}

func TestPersister_WriteFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := memory.NewKVStore()
	kv.FailWrites(errors.New("quota exceeded"))
	s := newPersistedStore(t, kv)

	task := s.Create(ctx, "Survives")
	assert.Equal(t, []domain.Task{task}, s.List())

	kv.FailWrites(nil)
	s.Create(ctx, "Catches up")
	stored, found, _ := kv.Get(ctx, "tasks")
	require.True(t, found)
	parsed, err := Parse(stored)
	require.NoError(t, err)
	assert.Len(t, parsed, 2, "next successful write carries the full list")
}

func TestPersister_HandleEventError(t *testing.T) {
	t.Parallel()

	_, l := logger.NewTestLogger(t)
	boom := errors.New("disk gone")
	p := NewPersister(failingKV{err: boom}, "", l)

	err := p.HandleEvent(context.Background(), events.NewTaskListChangedEvent(events.OperationCreate, domain.NewTaskID(), nil))
	assert.ErrorIs(t, err, boom)
}

func TestNewPersister_PanicsOnNilStore(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPersister(nil, "tasks", nil) })
}

func TestHydrate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key starts empty", func(t *testing.T) {
		_, l := logger.NewTestLogger(t)
		s := NewStore(nil, l)

		tasks := Hydrate(ctx, s, memory.NewKVStore(), "tasks", l)
		assert.Empty(t, tasks)
		assert.Zero(t, s.Len())
	})

	t.Run("persisted list is restored", func(t *testing.T) {
		kv := memory.NewKVStore()
		writer := newPersistedStore(t, kv)
		writer.Create(ctx, "One")
		writer.Create(ctx, "Two")

		_, l := logger.NewTestLogger(t)
		reader := NewStore(nil, l)
		tasks := Hydrate(ctx, reader, kv, "tasks", l)

		assert.Equal(t, writer.List(), tasks)
		assert.Equal(t, writer.List(), reader.List())
	})

	t.Run("malformed payload starts empty", func(t *testing.T) {
		kv := memory.NewKVStore()
		require.NoError(t, kv.Set(ctx, "tasks", `{"not":"an array"}`))

		buf, l := logger.NewTestLogger(t)
		s := NewStore(nil, l)
		tasks := Hydrate(ctx, s, kv, "tasks", l)

		assert.Empty(t, tasks)
		assert.Zero(t, s.Len())
		logger.AssertLogContains(t, buf, "persisted task list is malformed")
	})

	t.Run("unreadable backend starts empty", func(t *testing.T) {
		buf, l := logger.NewTestLogger(t)
		s := NewStore(nil, l)
		s.Create(ctx, "Stale")

		tasks := Hydrate(ctx, s, failingKV{err: errors.New("connection refused")}, "tasks", l)

		assert.Empty(t, tasks)
		assert.Zero(t, s.Len())
		logger.AssertLogContains(t, buf, "failed to read persisted task list")
	})

	t.Run("default key", func(t *testing.T) {
		kv := memory.NewKVStore()
		require.NoError(t, kv.Set(ctx, "tasks", "[]"))

		s := NewStore(nil, nil)
		assert.Empty(t, Hydrate(ctx, s, kv, "", nil))
	})
}
