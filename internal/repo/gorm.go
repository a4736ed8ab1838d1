package repo

import (
	"errors"

	"github.com/Skotchmaster/gamestore/internal/models"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate() error {
	return r.DB.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}, &models.OrderLine{})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
