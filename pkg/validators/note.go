package validators

import (
	"strings"
	"time"
	"unicode/utf8"

	"bitwise74/notes-api/internal/model"
)

const (
	ErrTitleEmpty      Error = "title can't be empty"
	ErrTitleTooLong    Error = "title can't be longer than 220 characters"
	ErrContentEmpty    Error = "content can't be empty"
	ErrDueDateMissing  Error = "due_date is required"
	ErrDueDateInvalid  Error = "due_date must be a valid datetime"
	ErrPriorityRange   Error = "priority must be between 1 and 10"
	ErrPriorityMissing Error = "priority is required"
	ErrCompleteMissing Error = "is_complete is required"
)

// Accepted due_date layouts. Values without a zone are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate parses the due_date formats clients are known to send
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrDueDateMissing
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, ErrDueDateInvalid
}

func NoteValidator(title, content string, dueDate time.Time, priority int) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleEmpty
	}

	if utf8.RuneCountInString(title) > model.NoteTitleMaxLen {
		return ErrTitleTooLong
	}

	if strings.TrimSpace(content) == "" {
		return ErrContentEmpty
	}

	if dueDate.IsZero() {
		return ErrDueDateMissing
	}

	if priority < model.MinPriority || priority > model.MaxPriority {
		return ErrPriorityRange
	}

	return nil
}
