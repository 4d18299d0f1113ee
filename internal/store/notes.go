package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/pkg/validators"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteInput carries the user editable fields of a note. It's used for both
// create and update, an update replaces all of them.
type NoteInput struct {
	Title      string
	Content    string
	DueDate    time.Time
	Priority   int
	IsComplete bool
}

type NoteStore struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{
		db:  db,
		Now: time.Now,
	}
}

// CheckID fails with ErrInvalidID when id isn't a well formed UUID. The
// check runs before any lookup.
func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	return nil
}

func (s *NoteStore) Create(ctx context.Context, owner *model.User, in NoteInput) (*model.Note, error) {
	if owner == nil || owner.ID == "" {
		return nil, errors.New("note owner is required")
	}

	if err := validators.NoteValidator(in.Title, in.Content, in.DueDate, in.Priority); err != nil {
		return nil, err
	}

	note := &model.Note{
		ID:         uuid.NewString(),
		UserID:     owner.ID,
		Title:      in.Title,
		Content:    in.Content,
		CreatedAt:  s.Now().UTC(),
		DueDate:    in.DueDate.UTC(),
		Priority:   in.Priority,
		IsComplete: in.IsComplete,
	}

	if err := s.db.WithContext(ctx).Omit("User").Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note, %w", err)
	}

	note.User = *owner

	return note, nil
}

// Get returns a note by ID with its owner preloaded. Ownership isn't
// checked, any authenticated user can read any note.
func (s *NoteStore) Get(ctx context.Context, id string) (*model.Note, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	var note model.Note

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&note).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch note, %w", err)
	}

	return &note, nil
}

// owned loads a note and makes sure owner is the one who created it
func (s *NoteStore) owned(ctx context.Context, owner *model.User, id string) (*model.Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if owner == nil || note.UserID != owner.ID {
		return nil, ErrPermissionDenied
	}

	return note, nil
}

// Update replaces title, content, due date, priority and completion state.
// is_email_send is left alone so an edit never races the reminder job on
// that column.
func (s *NoteStore) Update(ctx context.Context, owner *model.User, id string, in NoteInput) (*model.Note, error) {
	note, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := validators.NoteValidator(in.Title, in.Content, in.DueDate, in.Priority); err != nil {
		return nil, err
	}

	note.Title = in.Title
	note.Content = in.Content
	note.DueDate = in.DueDate.UTC()
	note.Priority = in.Priority
	note.IsComplete = in.IsComplete

	err = s.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ?", note.ID).
		Updates(map[string]any{
			"title":       note.Title,
			"content":     note.Content,
			"due_date":    note.DueDate,
			"priority":    note.Priority,
			"is_complete": note.IsComplete,
		}).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to update note, %w", err)
	}

	return note, nil
}

func (s *NoteStore) Delete(ctx context.Context, owner *model.User, id string) error {
	note, err := s.owned(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("id = ?", note.ID).Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("failed to delete note, %w", err)
	}

	return nil
}

// List runs a typed query. Owners are always preloaded.
func (s *NoteStore) List(ctx context.Context, q Query) ([]model.Note, error) {
	tx, err := q.apply(s.db.WithContext(ctx).Model(&model.Note{}).Preload("User"))
	if err != nil {
		return nil, err
	}

	notes := []model.Note{}
	if err := tx.Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes, %w", err)
	}

	return notes, nil
}

func (s *NoteStore) ListAll(ctx context.Context) ([]model.Note, error) {
	return s.List(ctx, Query{})
}

func ownerQuery(owner *model.User) Query {
	return Query{}.Where(FieldOwner, OpEq, owner.ID)
}

func (s *NoteStore) ListForOwner(ctx context.Context, owner *model.User) ([]model.Note, error) {
	return s.List(ctx, ownerQuery(owner))
}

func (s *NoteStore) ListUnfinished(ctx context.Context, owner *model.User) ([]model.Note, error) {
	return s.List(ctx, ownerQuery(owner).Where(FieldIsComplete, OpEq, false))
}

func (s *NoteStore) ListFinished(ctx context.Context, owner *model.User) ([]model.Note, error) {
	return s.List(ctx, ownerQuery(owner).Where(FieldIsComplete, OpEq, true))
}

// ListOverdue returns notes due at or before now, complete or not
func (s *NoteStore) ListOverdue(ctx context.Context, owner *model.User, now time.Time) ([]model.Note, error) {
	return s.List(ctx, ownerQuery(owner).Where(FieldDueDate, OpLte, now.UTC()))
}

func (s *NoteStore) ListOrdered(ctx context.Context, owner *model.User, f SortField, d Direction) ([]model.Note, error) {
	return s.List(ctx, ownerQuery(owner).OrderBy(f, d))
}

// PendingReminders returns every note due after now that hasn't had its
// reminder mail sent yet
func (s *NoteStore) PendingReminders(ctx context.Context, now time.Time) ([]model.Note, error) {
	q := Query{}.
		Where(FieldDueDate, OpGt, now.UTC()).
		Where(FieldIsEmailSend, OpEq, false).
		OrderBy(SortDueDate, Asc)

	return s.List(ctx, q)
}

// MarkEmailSent flips is_email_send on a single note. Only that column is
// written and only while it's still false, so it reports false when another
// run got there first.
func (s *NoteStore) MarkEmailSent(ctx context.Context, id string) (bool, error) {
	r := s.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ? AND is_email_send = ?", id, false).
		Update("is_email_send", true)
	if r.Error != nil {
		return false, fmt.Errorf("failed to mark reminder as sent, %w", r.Error)
	}

	return r.RowsAffected == 1, nil
}
