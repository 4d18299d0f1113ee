// Package note contains the note endpoints. Every handler runs behind the
// JWT middleware.
package note

import (
	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/validators"
)

type noteBody struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	DueDate    string `json:"due_date"`
	Priority   *int   `json:"priority"`
	IsComplete *bool  `json:"is_complete"`
}

// input turns the request body into a store command. With full set, every
// field is required since an update replaces the whole note.
func (b *noteBody) input(full bool) (store.NoteInput, error) {
	due, err := validators.ParseDueDate(b.DueDate)
	if err != nil {
		return store.NoteInput{}, err
	}

	in := store.NoteInput{
		Title:    b.Title,
		Content:  b.Content,
		DueDate:  due,
		Priority: model.MinPriority,
	}

	if b.Priority != nil {
		in.Priority = *b.Priority
	} else if full {
		return store.NoteInput{}, validators.ErrPriorityMissing
	}

	if b.IsComplete != nil {
		in.IsComplete = *b.IsComplete
	} else if full {
		return store.NoteInput{}, validators.ErrCompleteMissing
	}

	return in, nil
}
