package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookshelf/internal/models"
)

// UserStore is the credential store. Uniqueness of email and of a live
// verification token is enforced by database indexes, not by callers.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, user *models.User) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *gormUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *gormUserStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.first(ctx, "verification_token = ?", token)
}

func (s *gormUserStore) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// MarkVerified flips the flag and clears the token in one update, which is
// what makes a verification link single-use.
func (s *gormUserStore) MarkVerified(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Model(user).
		Select("is_email_verified", "verification_token").
		Updates(map[string]any{
			"is_email_verified":  true,
			"verification_token": nil,
		}).Error
	if err != nil {
		return err
	}
	user.IsEmailVerified = true
	user.VerificationToken = nil
	return nil
}
