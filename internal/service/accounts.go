package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/security"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("wrong credentials provided")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrResetTokenInvalid  = errors.New("token not valid")
	ErrMailNotSent        = errors.New("email not sent")
)

// Accounts implements the user facing auth flows on top of the user
// directory and the token service
type Accounts struct {
	Users   *store.UserStore
	Tokens  *security.TokenService
	Queue   *MailQueue
	BaseURL string
}

func (a *Accounts) link(path string) string {
	return strings.TrimSuffix(a.BaseURL, "/") + path
}

// Register creates the user, issues their auth token and queues the
// verification link. If the mail can't be queued or later fails to send,
// the user is deleted again so no unverifiable account is left behind.
// This is a compensating delete, not a transaction: a crash between the
// two steps leaves the user.
func (a *Accounts) Register(ctx context.Context, in store.NewUser) (*model.User, string, error) {
	user, err := a.Users.Create(ctx, in)
	if err != nil {
		return nil, "", err
	}

	token, err := a.Tokens.IssueAuthToken(user.ID)
	if err != nil {
		a.rollback(user.ID)
		return nil, "", fmt.Errorf("failed to issue auth token, %w", err)
	}

	m, err := VerificationMail(user, a.link("/api/users/verify-email/"+url.PathEscape(token)), a.Tokens.TTL)
	if err == nil {
		err = a.Queue.EnqueueWithFallback(m, func(_ *Mail, sendErr error) {
			zap.L().Error("Verification email failed, removing user", zap.String("user_id", user.ID), zap.Error(sendErr))
			a.rollback(user.ID)
		})
	}

	if err != nil {
		zap.L().Error("Failed to queue verification email", zap.String("user_id", user.ID), zap.Error(err))
		a.rollback(user.ID)
		return nil, "", ErrMailNotSent
	}

	return user, token, nil
}

// rollback runs detached from any request, the delete must happen even
// when the request that created the user is long gone. A user who already
// verified their email is kept.
func (a *Accounts) rollback(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := a.Users.DeleteUnverified(ctx, userID)
	if err != nil {
		zap.L().Error("Failed to delete user after failed registration",
			zap.String("user_id", userID), zap.Error(err))
		return
	}

	if !deleted {
		zap.L().Warn("Verification email failed for an already verified user, keeping it",
			zap.String("user_id", userID))
	}
}

// Login checks the credentials and returns a fresh auth token. An unknown
// email and a wrong password fail the same way.
func (a *Accounts) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", err
	}

	ok, err := a.Users.CheckPassword(user, password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.Tokens.IssueAuthToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue auth token, %w", err)
	}

	return user, token, nil
}

// VerifyEmail redeems an auth token sent by mail and marks its user as
// verified
func (a *Accounts) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	userID, err := a.Tokens.ValidateAuthToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := a.Users.MarkEmailVerified(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, err
	}

	return user, nil
}

// RequestPasswordReset queues a reset link for the account behind email.
// Unknown emails are ignored so callers can't probe for accounts.
func (a *Accounts) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			zap.L().Debug("Password reset requested for unknown email")
			return nil
		}

		return err
	}

	token := a.Tokens.IssueResetToken(user.ID, user.PasswordHash)
	link := a.link(fmt.Sprintf("/api/users/reset_password_confirm/%s/%s",
		security.EncodeUID(user.ID), token))

	m, err := PasswordResetMail(user, link)
	if err != nil {
		return err
	}

	return a.Queue.Enqueue(m)
}

// CheckResetToken resolves uidb64 and validates token against the user's
// current password hash
func (a *Accounts) CheckResetToken(ctx context.Context, uidb64, token string) (*model.User, error) {
	userID, err := security.DecodeUID(uidb64)
	if err != nil {
		return nil, ErrResetTokenInvalid
	}

	user, err := a.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrResetTokenInvalid
		}

		return nil, err
	}

	if !a.Tokens.ValidateResetToken(user.ID, user.PasswordHash, token) {
		return nil, ErrResetTokenInvalid
	}

	return user, nil
}

// ConfirmPasswordReset sets a new password. The token can't be reused
// since it was bound to the old hash.
func (a *Accounts) ConfirmPasswordReset(ctx context.Context, uidb64, token, password string) (*model.User, error) {
	user, err := a.CheckResetToken(ctx, uidb64, token)
	if err != nil {
		return nil, err
	}

	if err := a.Users.SetPassword(ctx, user, password); err != nil {
		return nil, err
	}

	return user, nil
}
