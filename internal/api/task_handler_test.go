package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/api/middleware"
	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/tasklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer bundles a router wired to a real controller and store.
type testServer struct {
	router http.Handler
	store  *tasklist.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	_, l := logger.NewTestLogger(t)
	store := tasklist.NewStore(nil, l)
	controller, err := service.NewTaskController(store, l)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(l))
	RegisterRoutes(r, NewTaskHandler(controller, l))

	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) service.ViewState {
	t.Helper()

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	var state service.ViewState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	return state
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.TraceID, 32)
	return body
}

func TestTaskHandler_InitialState(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	state := decodeState(t, s.do(t, http.MethodGet, "/api/state", ""))

	assert.Empty(t, state.Tasks)
	assert.Equal(t, service.ModeCreating, state.Mode)
	assert.Equal(t, service.SubmitLabelCreate, state.SubmitLabel)
	assert.False(t, state.CanSubmit)
}

func TestTaskHandler_CreateEditToggleDelete(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	state := decodeState(t, s.do(t, http.MethodPut, "/api/draft", `{"text":"buy milk"}`))
	assert.Equal(t, "Buy milk", state.DraftText)
	assert.True(t, state.CanSubmit)

	state = decodeState(t, s.do(t, http.MethodPost, "/api/submit", ""))
	require.Len(t, state.Tasks, 1)
	assert.Equal(t, "Buy milk", state.Tasks[0].Text)
	assert.Empty(t, state.DraftText)
	id := state.Tasks[0].ID.String()

	state = decodeState(t, s.do(t, http.MethodPost, "/api/tasks/"+id+"/edit", ""))
	assert.Equal(t, service.ModeEditing, state.Mode)
	assert.Equal(t, service.SubmitLabelUpdate, state.SubmitLabel)
	require.NotNil(t, state.EditTarget)
	assert.Equal(t, "Buy milk", state.EditTarget.OriginalText)

	decodeState(t, s.do(t, http.MethodPut, "/api/draft", `{"text":"buy oat milk"}`))
	state = decodeState(t, s.do(t, http.MethodPost, "/api/submit", ""))
	require.Len(t, state.Tasks, 1)
	assert.Equal(t, "Buy oat milk", state.Tasks[0].Text)
	assert.Equal(t, service.ModeCreating, state.Mode)

	state = decodeState(t, s.do(t, http.MethodPost, "/api/tasks/"+id+"/toggle", ""))
	assert.True(t, state.Tasks[0].Completed)

	state = decodeState(t, s.do(t, http.MethodDelete, "/api/tasks/"+id, ""))
	assert.Empty(t, state.Tasks)
	assert.Zero(t, s.store.Len())
}

func TestTaskHandler_BlankSubmitIsSilent(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	decodeState(t, s.do(t, http.MethodPut, "/api/draft", `{"text":"   "}`))

	state := decodeState(t, s.do(t, http.MethodPost, "/api/submit", ""))
	assert.Empty(t, state.Tasks)
	assert.Equal(t, "   ", state.DraftText)
}

func TestTaskHandler_Cancel(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	task := s.store.Create(context.Background(), "Keep")

	decodeState(t, s.do(t, http.MethodPost, "/api/tasks/"+task.ID.String()+"/edit", ""))
	decodeState(t, s.do(t, http.MethodPut, "/api/draft", `{"text":"changed"}`))

	state := decodeState(t, s.do(t, http.MethodPost, "/api/cancel", ""))
	assert.Equal(t, service.ModeCreating, state.Mode)
	assert.Empty(t, state.DraftText)
	assert.Nil(t, state.EditTarget)
	assert.Equal(t, []domain.Task{task}, state.Tasks)
}

func TestTaskHandler_UnknownIDs(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	task := s.store.Create(context.Background(), "Existing")
	unknown := uuid.Must(uuid.NewV7()).String()

	rec := s.do(t, http.MethodPost, "/api/tasks/"+unknown+"/edit", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeError(t, rec).Error)

	state := decodeState(t, s.do(t, http.MethodPost, "/api/tasks/"+unknown+"/toggle", ""))
	assert.Equal(t, []domain.Task{task}, state.Tasks)

	state = decodeState(t, s.do(t, http.MethodDelete, "/api/tasks/"+unknown, ""))
	assert.Equal(t, []domain.Task{task}, state.Tasks)
}

func TestTaskHandler_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantMsg string
	}{
		{name: "malformed id on edit", method: http.MethodPost, path: "/api/tasks/not-a-uuid/edit", wantMsg: "Invalid id: has invalid format"},
		{name: "malformed id on toggle", method: http.MethodPost, path: "/api/tasks/123/toggle", wantMsg: "Invalid id: has invalid format"},
		{name: "nil id on delete", method: http.MethodDelete, path: "/api/tasks/" + uuid.Nil.String(), wantMsg: "Invalid id: has invalid format"},
		{name: "malformed json", method: http.MethodPut, path: "/api/draft", body: `{"text":`, wantMsg: "Invalid request format"},
		{name: "unknown field", method: http.MethodPut, path: "/api/draft", body: `{"txt":"a"}`, wantMsg: "Invalid request format"},
		{name: "missing text", method: http.MethodPut, path: "/api/draft", body: `{}`, wantMsg: "Invalid Text: required field"},
		{name: "empty body", method: http.MethodPut, path: "/api/draft", wantMsg: "Request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := s.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Error)
		})
	}
}

func TestTaskHandler_Health(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// failingController reports an unexpected error from every submit.
type failingController struct {
	service.TaskController
}

func (failingController) OnSubmit(context.Context) error {
	return errors.New("dial tcp db.example.com:5432: connection refused")
}

func TestTaskHandler_SubmitUnexpectedError(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	h := NewTaskHandler(failingController{}, l)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(l))
	RegisterRoutes(r, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/submit", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to submit task", decodeError(t, rec).Error)
	assert.NotContains(t, buf.String(), "db.example.com")
}

func TestNewTaskHandler_PanicsOnNilController(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
}
