package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/service"
)

// TaskHandler handles task list HTTP requests
type TaskHandler struct {
	controller service.TaskController
	logger     *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(controller service.TaskController, logger *slog.Logger) *TaskHandler {
	if controller == nil {
		panic("controller cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		controller: controller,
		logger:     logger.With(slog.String("component", "task_handler")),
	}
}

// GetState handles GET /api/state
func (h *TaskHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respondWithState(w, r)
}

// UpdateDraft handles PUT /api/draft, the text-changed gesture.
func (h *TaskHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.controller.OnTextChanged(*req.Text)
	h.respondWithState(w, r)
}

// Submit handles POST /api/submit. A blank draft is not an error: the
// state is returned unchanged.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := h.controller.OnSubmit(r.Context()); err != nil {
		if !errors.Is(err, service.ErrEmptyInput) {
			HandleAPIError(w, r, err, "Failed to submit task")
			return
		}
		log.Debug("blank submit ignored")
	}

	h.respondWithState(w, r)
}

// Cancel handles POST /api/cancel
func (h *TaskHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.controller.OnCancel()
	h.respondWithState(w, r)
}

// EditTask handles POST /api/tasks/{id}/edit
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.controller.OnEditRequestedByID(r.Context(), id) {
		HandleAPIError(w, r, ErrTaskNotFound, "")
		return
	}

	h.respondWithState(w, r)
}

// ToggleTask handles POST /api/tasks/{id}/toggle. An unknown id leaves the
// state unchanged.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.controller.OnToggleRequested(r.Context(), id) {
		log.Debug("toggle of unknown task ignored", slog.String("task_id", id.String()))
	}
	h.respondWithState(w, r)
}

// DeleteTask handles DELETE /api/tasks/{id}. An unknown id leaves the
// state unchanged.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.controller.OnDeleteRequested(r.Context(), id) {
		log.Debug("delete of unknown task ignored", slog.String("task_id", id.String()))
	}
	h.respondWithState(w, r)
}

// Health handles GET /health
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *TaskHandler) respondWithState(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.controller.Snapshot())
}
