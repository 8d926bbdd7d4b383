package tasklist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/domain"
)

// ParseError reports a persisted task list that could not be decoded.
// Index is the offending record position, or -1 when the payload as a whole is bad.
type ParseError struct {
	Reason string
	Index  int
	Err    error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	msg := "malformed task list: " + e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("malformed task list: record %d: %s", e.Index, e.Reason)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decode or validation error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match domain.ErrInvalidFormat.
func (e *ParseError) Is(target error) bool {
	return target == domain.ErrInvalidFormat
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// wireTask is the persisted shape of a task. Pointer fields let validation
// tell a missing field from a zero value.
type wireTask struct {
	ID        *string `json:"id" validate:"required,uuid"`
	Text      *string `json:"text" validate:"required"`
	Completed *bool   `json:"completed" validate:"required"`
}

var validate = validator.New()

// Serialize encodes tasks as a JSON array of {id, text, completed} objects.
// An empty or nil list encodes as "[]".
func Serialize(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to serialize task list: %w", err)
	}
	return string(data), nil
}

// Parse decodes a payload produced by Serialize. It rejects anything that is
// not a JSON array of complete, valid records with distinct ids; on error no
// tasks are returned.
func Parse(serialized string) ([]domain.Task, error) {
	trimmed := strings.TrimSpace(serialized)
	if trimmed == "" {
		return nil, &ParseError{Reason: "empty payload", Index: -1}
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &ParseError{Reason: "payload is not a JSON array", Index: -1}
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var records []wireTask
	if err := dec.Decode(&records); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Index: -1, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Reason: "trailing data after array", Index: -1}
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, record := range records {
		if err := validate.Struct(record); err != nil {
			return nil, &ParseError{Reason: "missing or invalid field", Index: i, Err: err}
		}

		id, err := uuid.Parse(*record.ID)
		if err != nil {
			return nil, &ParseError{Reason: "invalid id", Index: i, Err: err}
		}
		task := domain.Task{ID: id, Text: *record.Text, Completed: *record.Completed}
		if err := task.Validate(); err != nil {
			return nil, &ParseError{Reason: "invalid record", Index: i, Err: err}
		}
		if _, dup := seen[id]; dup {
			return nil, &ParseError{Reason: "duplicate id " + id.String(), Index: i}
		}
		seen[id] = struct{}{}

		tasks = append(tasks, task)
	}

	return tasks, nil
}
