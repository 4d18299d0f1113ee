package store_test

import (
	"context"
	"testing"
	"time"

	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/internal/testutil"
	"bitwise74/notes-api/pkg/validators"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(notes []model.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}

	return out
}

func TestNoteCreate(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()
	owner := testutil.NewTestUser(t, d, "owner@example.com", true)

	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	d.Notes.Now = func() time.Time { return created }

	due := time.Date(2025, 1, 2, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	note, err := d.Notes.Create(ctx, owner, store.NoteInput{
		Title:    "Buy milk",
		Content:  "Two liters",
		DueDate:  due,
		Priority: 3,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(note.ID)
	assert.NoError(t, err)
	assert.Equal(t, owner.ID, note.UserID)
	assert.Equal(t, owner.Email, note.User.Email)
	assert.False(t, note.IsEmailSend)
	assert.True(t, created.Equal(note.CreatedAt))

	got, err := d.Notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.True(t, due.Equal(got.DueDate))
	assert.Equal(t, 3, got.Priority)
	assert.Equal(t, owner.ID, got.User.ID)
}

func TestNoteCreateValidation(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	owner := testutil.NewTestUser(t, d, "owner@example.com", true)

	_, err := d.Notes.Create(context.Background(), owner, store.NoteInput{
		Title:    "t",
		Content:  "c",
		DueDate:  time.Now(),
		Priority: 11,
	})
	assert.ErrorIs(t, err, validators.ErrPriorityRange)

	all, err := d.Notes.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNoteGet(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	_, err := d.Notes.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrInvalidID)

	_, err = d.Notes.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNoteOwnership(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, d, "owner@example.com", true)
	other := testutil.NewTestUser(t, d, "other@example.com", true)
	note := testutil.NewTestNote(t, d, owner, "mine", time.Now().Add(time.Hour), 1)

	in := store.NoteInput{Title: "stolen", Content: "c", DueDate: time.Now(), Priority: 1}

	_, err := d.Notes.Update(ctx, other, note.ID, in)
	assert.ErrorIs(t, err, store.ErrPermissionDenied)

	err = d.Notes.Delete(ctx, other, note.ID)
	assert.ErrorIs(t, err, store.ErrPermissionDenied)

	got, err := d.Notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestNoteUpdate(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, d, "owner@example.com", true)
	note := testutil.NewTestNote(t, d, owner, "before", time.Now().Add(time.Hour), 1)

	ok, err := d.Notes.MarkEmailSent(ctx, note.ID)
	require.NoError(t, err)
	require.True(t, ok)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	updated, err := d.Notes.Update(ctx, owner, note.ID, store.NoteInput{
		Title:      "after",
		Content:    "new content",
		DueDate:    due,
		Priority:   7,
		IsComplete: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)

	got, err := d.Notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "new content", got.Content)
	assert.Equal(t, 7, got.Priority)
	assert.True(t, got.IsComplete)
	assert.True(t, due.Equal(got.DueDate))
	assert.True(t, note.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, got.IsEmailSend, "update must not reset the reminder flag")

	_, err = d.Notes.Update(ctx, owner, note.ID, store.NoteInput{Title: "", Content: "c", DueDate: due, Priority: 1})
	assert.ErrorIs(t, err, validators.ErrTitleEmpty)
}

func TestNoteDelete(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, d, "owner@example.com", true)
	note := testutil.NewTestNote(t, d, owner, "gone", time.Now(), 1)

	require.NoError(t, d.Notes.Delete(ctx, owner, note.ID))

	_, err := d.Notes.Get(ctx, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = d.Notes.Delete(ctx, owner, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = d.Notes.Delete(ctx, owner, "bogus")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestNoteListings(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, d, "owner@example.com", true)
	other := testutil.NewTestUser(t, d, "other@example.com", true)

	now := time.Now().UTC()
	past := testutil.NewTestNote(t, d, owner, "past", now.Add(-time.Hour), 5)
	future := testutil.NewTestNote(t, d, owner, "future", now.Add(time.Hour), 2)
	done := testutil.NewTestNote(t, d, owner, "done", now.Add(-2*time.Hour), 9)
	foreign := testutil.NewTestNote(t, d, other, "foreign", now.Add(-time.Hour), 1)

	_, err := d.Notes.Update(ctx, owner, done.ID, store.NoteInput{
		Title: done.Title, Content: done.Content, DueDate: done.DueDate, Priority: done.Priority, IsComplete: true,
	})
	require.NoError(t, err)

	all, err := d.Notes.ListAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{past.ID, future.ID, done.ID, foreign.ID}, ids(all))

	own, err := d.Notes.ListForOwner(ctx, owner)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{past.ID, future.ID, done.ID}, ids(own))
	for _, n := range own {
		assert.Equal(t, owner.Email, n.User.Email)
	}

	unfinished, err := d.Notes.ListUnfinished(ctx, owner)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{past.ID, future.ID}, ids(unfinished))

	finished, err := d.Notes.ListFinished(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{done.ID}, ids(finished))

	overdue, err := d.Notes.ListOverdue(ctx, owner, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{past.ID, done.ID}, ids(overdue))

	byPriority, err := d.Notes.ListOrdered(ctx, owner, store.SortPriority, store.Asc)
	require.NoError(t, err)
	assert.Equal(t, []string{future.ID, past.ID, done.ID}, ids(byPriority))

	byDue, err := d.Notes.ListOrdered(ctx, owner, store.SortDueDate, store.Desc)
	require.NoError(t, err)
	assert.Equal(t, []string{future.ID, past.ID, done.ID}, ids(byDue))
}

func TestNoteOrderTies(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()
	owner := testutil.NewTestUser(t, d, "owner@example.com", true)

	due := time.Now().Add(time.Hour)
	for range 5 {
		testutil.NewTestNote(t, d, owner, "same", due, 4)
	}

	first, err := d.Notes.ListOrdered(ctx, owner, store.SortPriority, store.Desc)
	require.NoError(t, err)

	second, err := d.Notes.ListOrdered(ctx, owner, store.SortPriority, store.Desc)
	require.NoError(t, err)

	assert.Equal(t, ids(first), ids(second))
}

func TestNoteListInvalidQuery(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	_, err := d.Notes.List(ctx, store.Query{}.Where("title; DROP TABLE notes", store.OpEq, 1))
	assert.ErrorIs(t, err, store.ErrInvalidQuery)

	_, err = d.Notes.List(ctx, store.Query{}.Where(store.FieldPriority, "LIKE", 1))
	assert.ErrorIs(t, err, store.ErrInvalidQuery)

	_, err = d.Notes.List(ctx, store.Query{}.OrderBy("title", store.Asc))
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestPendingReminders(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()
	owner := testutil.NewTestUser(t, d, "owner@example.com", true)

	now := time.Now().UTC()
	soon := testutil.NewTestNote(t, d, owner, "soon", now.Add(30*time.Minute+30*time.Second), 1)
	sent := testutil.NewTestNote(t, d, owner, "sent", now.Add(30*time.Minute+30*time.Second), 1)
	testutil.NewTestNote(t, d, owner, "past", now.Add(-time.Minute), 1)

	ok, err := d.Notes.MarkEmailSent(ctx, sent.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.Notes.MarkEmailSent(ctx, sent.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second mark must report it lost")

	pending, err := d.Notes.PendingReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID}, ids(pending))
}
