package service_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitwise74/notes-api/internal/service"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/internal/testutil"
	"bitwise74/notes-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hrefRe = regexp.MustCompile(`href="([^"]+)"`)

func linkIn(t *testing.T, m *service.Mail) string {
	t.Helper()

	match := hrefRe.FindStringSubmatch(m.HTML)
	require.Len(t, match, 2, "mail has no link")

	return match[1]
}

func newUser() store.NewUser {
	return store.NewUser{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "cobol-forever",
	}
}

func TestAccountsRegister(t *testing.T) {
	d, mailer := testutil.NewTestDeps(t)
	ctx := context.Background()

	user, token, err := d.Accounts.Register(ctx, newUser())
	require.NoError(t, err)
	assert.False(t, user.IsEmailVerified)

	id, err := d.Tokens.ValidateAuthToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	mails := mailer.WaitForMails(t, 1)
	require.Len(t, mails, 1)
	assert.Equal(t, "grace@example.com", mails[0].To)
	assert.Equal(t, testutil.TestBaseURL+"/api/users/verify-email/"+token, linkIn(t, mails[0]))

	verified, err := d.Accounts.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
}

func TestAccountsRegisterMailFailure(t *testing.T) {
	d, mailer := testutil.NewTestDeps(t)
	ctx := context.Background()
	mailer.SetFailing(true)

	_, _, err := d.Accounts.Register(ctx, newUser())
	require.NoError(t, err, "the mail goes out in the background")

	require.Eventually(t, func() bool {
		_, err := d.Users.FindByEmail(ctx, "grace@example.com")
		return errors.Is(err, store.ErrNotFound)
	}, 2*time.Second, 5*time.Millisecond, "user must be removed again")

	// The email is free to register again
	mailer.SetFailing(false)
	_, _, err = d.Accounts.Register(ctx, newUser())
	require.NoError(t, err)
	mailer.WaitForMails(t, 1)
}

// gatedMailer fails every Send once release is closed
type gatedMailer struct {
	release chan struct{}
}

func (m *gatedMailer) Send(ctx context.Context, _ *service.Mail) error {
	<-m.release
	return testutil.ErrMailDown
}

func TestAccountsRegisterLateFailureKeepsVerifiedUser(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	mailer := &gatedMailer{release: make(chan struct{})}
	q := service.NewMailQueue(mailer, 1, 10)
	q.StartWorkerPool()

	accounts := &service.Accounts{
		Users:   d.Users,
		Tokens:  d.Tokens,
		Queue:   q,
		BaseURL: testutil.TestBaseURL,
	}

	user, token, err := accounts.Register(ctx, newUser())
	require.NoError(t, err)

	// The token from the cookie is redeemed before the send gives up
	_, err = accounts.VerifyEmail(ctx, token)
	require.NoError(t, err)

	close(mailer.release)

	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, q.Close(closeCtx))

	_, failed := q.Stats()
	assert.Equal(t, int64(1), failed)

	got, err := d.Users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEmailVerified)
}

func TestAccountsRegisterQueueClosed(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()
	require.NoError(t, d.MailQueue.Close(ctx))

	_, _, err := d.Accounts.Register(ctx, newUser())
	assert.ErrorIs(t, err, service.ErrMailNotSent)

	_, err = d.Users.FindByEmail(ctx, "grace@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountsRegisterDuplicate(t *testing.T) {
	d, mailer := testutil.NewTestDeps(t)
	ctx := context.Background()

	_, _, err := d.Accounts.Register(ctx, newUser())
	require.NoError(t, err)

	_, _, err = d.Accounts.Register(ctx, newUser())
	assert.ErrorIs(t, err, store.ErrEmailTaken)

	mailer.WaitForMails(t, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, mailer.Sent(), 1)
}

func TestAccountsVerifyEmailRejected(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()

	_, err := d.Accounts.VerifyEmail(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Well formed token for a user that doesn't exist
	tok, err := d.Tokens.IssueAuthToken("3f1c2d9e-8a57-4a0e-9b4e-1f0a2c3d4e5f")
	require.NoError(t, err)

	_, err = d.Accounts.VerifyEmail(ctx, tok)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAccountsLogin(t *testing.T) {
	d, _ := testutil.NewTestDeps(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, d, "ada@example.com", false)

	got, token, err := d.Accounts.Login(ctx, "ADA@example.com", testutil.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = d.Accounts.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = d.Accounts.Login(ctx, "nobody@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAccountsPasswordReset(t *testing.T) {
	d, mailer := testutil.NewTestDeps(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, d, "ada@example.com", true)

	require.NoError(t, d.Accounts.RequestPasswordReset(ctx, "ada@example.com"))

	mails := mailer.WaitForMails(t, 1)
	assert.Equal(t, "Reset your password", mails[0].Subject)

	link := linkIn(t, mails[0])
	prefix := testutil.TestBaseURL + "/api/users/reset_password_confirm/"
	require.True(t, strings.HasPrefix(link, prefix), link)

	parts := strings.Split(strings.TrimPrefix(link, prefix), "/")
	require.Len(t, parts, 2)
	uidb64, token := parts[0], parts[1]

	uid, err := security.DecodeUID(uidb64)
	require.NoError(t, err)
	assert.Equal(t, user.ID, uid)

	_, err = d.Accounts.CheckResetToken(ctx, uidb64, token)
	require.NoError(t, err)

	_, err = d.Accounts.ConfirmPasswordReset(ctx, uidb64, token, "a whole new password")
	require.NoError(t, err)

	_, _, err = d.Accounts.Login(ctx, "ada@example.com", "a whole new password")
	assert.NoError(t, err)

	_, _, err = d.Accounts.Login(ctx, "ada@example.com", testutil.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// The token was bound to the old hash
	_, err = d.Accounts.ConfirmPasswordReset(ctx, uidb64, token, "yet another password")
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)
}

func TestAccountsPasswordResetRejected(t *testing.T) {
	d, mailer := testutil.NewTestDeps(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, d, "ada@example.com", true)

	require.NoError(t, d.Accounts.RequestPasswordReset(ctx, "nobody@example.com"))

	uidb64 := security.EncodeUID(user.ID)
	token := d.Tokens.IssueResetToken(user.ID, user.PasswordHash)

	_, err := d.Accounts.CheckResetToken(ctx, "%%%", token)
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)

	_, err = d.Accounts.CheckResetToken(ctx, security.EncodeUID("someone-else"), token)
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)

	_, err = d.Accounts.CheckResetToken(ctx, uidb64, "0-deadbeef")
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)

	d.Tokens.Now = func() time.Time { return time.Now().Add(security.ResetTokenTimeout + time.Hour) }
	_, err = d.Accounts.CheckResetToken(ctx, uidb64, token)
	assert.ErrorIs(t, err, service.ErrResetTokenInvalid)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, mailer.Sent(), "unknown emails get no mail")
}
