package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID   = errors.New("task ID cannot be empty")
	ErrEmptyTaskText = errors.New("task text cannot be empty")
)

// Task is one entry of the task list.
// Its ID is assigned once at creation and never changes.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
}

// NewTaskID returns a version 7 UUID. V7 ids embed the creation time and are
// strictly increasing within a process, so they sort in creation order.
func NewTaskID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Validate checks if the Task has valid data.
func (t Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if IsBlank(t.Text) {
		return ErrEmptyTaskText
	}

	return nil
}

// WithText returns a copy of the task carrying the new text.
func (t Task) WithText(text string) Task {
	t.Text = text
	return t
}

// Toggled returns a copy of the task with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// NormalizeText replaces invalid UTF-8 sequences with U+FFFD so that the text
// survives a JSON round trip unchanged.
func NormalizeText(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Capitalize upper-cases the first character of s and leaves the rest as is.
// Full case mappings apply, so "ß" becomes "SS". The result is normalized
// with NormalizeText.
func Capitalize(s string) string {
	s = NormalizeText(s)
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

// IsBlank reports whether s is empty or contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
