package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/pkg/security"
	"bitwise74/notes-api/pkg/validators"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserStore is the user directory. Emails are stored lowercased and
// matched case-insensitively.
type UserStore struct {
	db    *gorm.DB
	argon *security.ArgonHash
}

func NewUserStore(db *gorm.DB, argon *security.ArgonHash) *UserStore {
	return &UserStore{
		db:    db,
		argon: argon,
	}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new unverified user. The email is stored normalized,
// so the unique index also covers case variants. The duplicate check and
// the insert aren't atomic, a concurrent registration trips the unique
// index instead which is reported as ErrEmailTaken as well.
func (s *UserStore) Create(ctx context.Context, in NewUser) (*model.User, error) {
	in.Email = NormalizeEmail(in.Email)

	if err := validators.NameValidator(in.FirstName, in.LastName); err != nil {
		return nil, err
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, err
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.argon.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return user, nil
}

func (s *UserStore) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", NormalizeEmail(email))
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	if err := CheckID(id); err != nil {
		return nil, ErrNotFound
	}

	return s.first(ctx, "id = ?", id)
}

// CheckPassword reports whether p matches the user's stored hash
func (s *UserStore) CheckPassword(u *model.User, p string) (bool, error) {
	return s.argon.Verify(p, u.PasswordHash)
}

// MarkEmailVerified sets is_email_verified and returns the updated user
func (s *UserStore) MarkEmailVerified(ctx context.Context, id string) (*model.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("is_email_verified", true).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to verify user, %w", err)
	}

	user.IsEmailVerified = true

	return user, nil
}

// SetPassword re-hashes and stores a new password for u
func (s *UserStore) SetPassword(ctx context.Context, u *model.User, p string) error {
	if err := validators.PasswordValidator(p); err != nil {
		return err
	}

	hash, err := s.argon.Hash(p)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Update("password_hash", hash).
		Error
	if err != nil {
		return fmt.Errorf("failed to update password, %w", err)
	}

	u.PasswordHash = hash

	return nil
}

// Delete hard deletes a user together with their notes
func (s *UserStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}

		r := tx.Where("id = ?", id).Delete(&model.User{})
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// DeleteUnverified deletes the user like Delete, unless they verified
// their email in the meantime. It reports whether the user was deleted.
func (s *UserStore) DeleteUnverified(ctx context.Context, id string) (bool, error) {
	deleted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := tx.Where("id = ? AND is_email_verified = ?", id, false).Delete(&model.User{})
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return nil
		}

		deleted = true
		return tx.Where("user_id = ?", id).Delete(&model.Note{}).Error
	})

	return deleted, err
}
