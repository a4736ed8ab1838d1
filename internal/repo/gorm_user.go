package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/gamestore/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("email %q: %w", u.Email, ErrDuplicate)
		}
		return tx.Create(u).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("email %q: %w", u.Email, ErrDuplicate)
	}
	return err
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
