package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdatePassword replaces the stored hash and admin flag for an existing user
func (r *UserRepo) UpdatePassword(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).
		Select("password_hash", "is_admin").
		Updates(map[string]any{"password_hash": user.PasswordHash, "is_admin": user.IsAdmin}).Error
}
