// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"bitwise74/notes-api/db"
	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	TestSecret   = "test-secret-that-is-long-enough-for-hs256"
	TestBaseURL  = "http://notes.test"
	TestPassword = "correct horse battery"
)

// ErrMailDown is returned by a failing FakeMailer
var ErrMailDown = errors.New("smtp unavailable")

// NewTestDB opens a fresh in-memory SQLite database with the schema
// migrated. Every call gets its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.New(db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return conn
}

// FakeMailer records every mail instead of sending it
type FakeMailer struct {
	mu    sync.Mutex
	mails []*service.Mail
	fail  bool
}

func (m *FakeMailer) Send(_ context.Context, mail *service.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return ErrMailDown
	}

	m.mails = append(m.mails, mail)
	return nil
}

// SetFailing makes every following Send fail with ErrMailDown
func (m *FakeMailer) SetFailing(fail bool) {
	m.mu.Lock()
	m.fail = fail
	m.mu.Unlock()
}

func (m *FakeMailer) Sent() []*service.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*service.Mail(nil), m.mails...)
}

// WaitForMails blocks until at least n mails were recorded
func (m *FakeMailer) WaitForMails(t *testing.T, n int) []*service.Mail {
	t.Helper()

	require.Eventually(t, func() bool {
		return len(m.Sent()) >= n
	}, 2*time.Second, 5*time.Millisecond)

	return m.Sent()
}

// NewTestDeps wires a full dependency set on top of an in-memory database
// and a FakeMailer. The mail queue is closed when the test ends.
func NewTestDeps(t *testing.T) (*internal.Deps, *FakeMailer) {
	t.Helper()

	mailer := &FakeMailer{}
	d := internal.NewDeps(NewTestDB(t), mailer, internal.Options{
		JWTSecret:     TestSecret,
		TokenTTL:      time.Hour,
		BaseURL:       TestBaseURL,
		MailWorkers:   1,
		MailQueueSize: 10,
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.MailQueue.Close(ctx)
	})

	return d, mailer
}

// NewTestUser creates a user with TestPassword. The email is verified
// when verified is set.
func NewTestUser(t *testing.T, d *internal.Deps, email string, verified bool) *model.User {
	t.Helper()
	ctx := context.Background()

	user, err := d.Users.Create(ctx, store.NewUser{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  TestPassword,
	})
	require.NoError(t, err)

	if verified {
		user, err = d.Users.MarkEmailVerified(ctx, user.ID)
		require.NoError(t, err)
	}

	return user
}

// NewTestNote creates a note owned by owner
func NewTestNote(t *testing.T, d *internal.Deps, owner *model.User, title string, due time.Time, priority int) *model.Note {
	t.Helper()

	note, err := d.Notes.Create(context.Background(), owner, store.NoteInput{
		Title:    title,
		Content:  "content of " + title,
		DueDate:  due,
		Priority: priority,
	})
	require.NoError(t, err)

	return note
}

// AuthCookie returns a jwt cookie for user
func AuthCookie(t *testing.T, d *internal.Deps, user *model.User) *http.Cookie {
	t.Helper()

	token, err := d.Tokens.IssueAuthToken(user.ID)
	require.NoError(t, err)

	return &http.Cookie{Name: middleware.CookieName, Value: token}
}
