package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// TaskStore defines the store operations the controller needs.
// It is satisfied by *tasklist.Store.
type TaskStore interface {
	// Create appends a new incomplete task
	Create(ctx context.Context, text string) domain.Task

	// Update replaces a task's text, reporting whether the id matched
	Update(ctx context.Context, id uuid.UUID, text string) bool

	// Delete removes a task, reporting whether the id matched
	Delete(ctx context.Context, id uuid.UUID) bool

	// ToggleCompleted flips a task's completion state, reporting whether the id matched
	ToggleCompleted(ctx context.Context, id uuid.UUID) bool

	// List returns a snapshot of all tasks in creation order
	List() []domain.Task

	// Get returns a single task by id
	Get(id uuid.UUID) (domain.Task, bool)
}

// Mode is the controller state.
type Mode string

const (
	// ModeCreating means a submit appends a new task.
	ModeCreating Mode = "creating"
	// ModeEditing means a submit rewrites the task under edit.
	ModeEditing Mode = "editing"
)

// Labels for the submit control in each mode.
const (
	SubmitLabelCreate = "Submit"
	SubmitLabelUpdate = "Update"
)

// EditSlot identifies the task being edited and the text it had when the
// edit began.
type EditSlot struct {
	ID           uuid.UUID `json:"id"`
	OriginalText string    `json:"original_text"`
}

// ViewState is everything a presentation layer needs to render the list and
// the input area.
type ViewState struct {
	Tasks       []domain.Task `json:"tasks"`
	DraftText   string        `json:"draft_text"`
	Mode        Mode          `json:"mode"`
	EditTarget  *EditSlot     `json:"edit_target,omitempty"`
	CanSubmit   bool          `json:"can_submit"`
	CanCancel   bool          `json:"can_cancel"`
	SubmitLabel string        `json:"submit_label"`
}

// TaskController maps user intents onto the task store.
type TaskController interface {
	// OnTextChanged stores the capitalized input as the draft
	OnTextChanged(raw string)

	// OnEditRequested loads task into the draft and enters Editing mode
	OnEditRequested(task domain.Task)

	// OnEditRequestedByID is OnEditRequested for callers holding only an id.
	// It returns false, changing nothing, when no task matches.
	OnEditRequestedByID(ctx context.Context, id uuid.UUID) bool

	// OnSubmit creates or updates a task from the draft.
	// A blank draft returns ErrEmptyInput and changes nothing.
	OnSubmit(ctx context.Context) error

	// OnCancel clears the draft and leaves Editing mode
	OnCancel()

	// OnDeleteRequested deletes a task, abandoning the edit if it was the target
	OnDeleteRequested(ctx context.Context, id uuid.UUID) bool

	// OnToggleRequested flips a task's completion state
	OnToggleRequested(ctx context.Context, id uuid.UUID) bool

	// Snapshot returns the current view state
	Snapshot() ViewState

	// Mode returns the current controller state
	Mode() Mode

	// CanSubmit reports whether the draft holds non-blank text
	CanSubmit() bool

	// CanCancel reports whether there is anything to cancel
	CanCancel() bool

	// SubmitLabel returns the label for the submit control
	SubmitLabel() string
}

// taskControllerImpl implements the TaskController interface
type taskControllerImpl struct {
	mu         sync.Mutex
	store      TaskStore
	draftText  string
	editTarget *EditSlot
	logger     *slog.Logger
}

// NewTaskController creates a TaskController in Creating mode with an empty draft.
// It returns an error if store is nil.
func NewTaskController(store TaskStore, logger *slog.Logger) (TaskController, error) {
	if store == nil {
		return nil, &ServiceError{
			Operation: "create_controller",
			Message:   "store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskControllerImpl{
		store:  store,
		logger: logger.With("component", "task_controller"),
	}, nil
}

func (c *taskControllerImpl) OnTextChanged(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draftText = domain.Capitalize(raw)
}

func (c *taskControllerImpl) OnEditRequested(task domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.beginEdit(task)
}

func (c *taskControllerImpl) OnEditRequestedByID(ctx context.Context, id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.store.Get(id)
	if !ok {
		logger.FromContextOrDefault(ctx, c.logger).Debug("edit requested for unknown task",
			slog.String("task_id", id.String()))
		return false
	}

	c.beginEdit(task)
	return true
}

func (c *taskControllerImpl) beginEdit(task domain.Task) {
	c.draftText = task.Text
	c.editTarget = &EditSlot{ID: task.ID, OriginalText: task.Text}
}

func (c *taskControllerImpl) OnSubmit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, c.logger)

	if domain.IsBlank(c.draftText) {
		log.Debug("ignoring submit of blank draft")
		return ErrEmptyInput
	}

	if c.editTarget != nil {
		id := c.editTarget.ID
		if !c.store.Update(ctx, id, c.draftText) {
			log.Warn("task under edit no longer exists",
				slog.String("task_id", id.String()))
		} else {
			log.Info("task updated", slog.String("task_id", id.String()))
		}
		c.editTarget = nil
	} else {
		task := c.store.Create(ctx, c.draftText)
		log.Info("task created", slog.String("task_id", task.ID.String()))
	}

	c.draftText = ""
	return nil
}

func (c *taskControllerImpl) OnCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearInput()
}

func (c *taskControllerImpl) OnDeleteRequested(ctx context.Context, id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, c.logger)

	deleted := c.store.Delete(ctx, id)
	if c.editTarget != nil && c.editTarget.ID == id {
		c.clearInput()
		log.Debug("abandoned edit of deleted task", slog.String("task_id", id.String()))
	}

	if deleted {
		log.Info("task deleted", slog.String("task_id", id.String()))
	}
	return deleted
}

func (c *taskControllerImpl) OnToggleRequested(ctx context.Context, id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	toggled := c.store.ToggleCompleted(ctx, id)
	if toggled {
		logger.FromContextOrDefault(ctx, c.logger).Info("task toggled",
			slog.String("task_id", id.String()))
	}
	return toggled
}

func (c *taskControllerImpl) clearInput() {
	c.draftText = ""
	c.editTarget = nil
}

func (c *taskControllerImpl) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	var target *EditSlot
	if c.editTarget != nil {
		slot := *c.editTarget
		target = &slot
	}

	return ViewState{
		Tasks:       c.store.List(),
		DraftText:   c.draftText,
		Mode:        c.mode(),
		EditTarget:  target,
		CanSubmit:   c.canSubmit(),
		CanCancel:   c.canCancel(),
		SubmitLabel: c.submitLabel(),
	}
}

func (c *taskControllerImpl) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode()
}

func (c *taskControllerImpl) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmit()
}

func (c *taskControllerImpl) CanCancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canCancel()
}

func (c *taskControllerImpl) SubmitLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLabel()
}

func (c *taskControllerImpl) mode() Mode {
	if c.editTarget != nil {
		return ModeEditing
	}
	return ModeCreating
}

func (c *taskControllerImpl) canSubmit() bool {
	return !domain.IsBlank(c.draftText)
}

func (c *taskControllerImpl) canCancel() bool {
	return c.draftText != "" || c.editTarget != nil
}

func (c *taskControllerImpl) submitLabel() string {
	if c.editTarget != nil {
		return SubmitLabelUpdate
	}
	return SubmitLabelCreate
}

