package repo

import (
	"context"

	"github.com/Skotchmaster/gamestore/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) AddOrIncrement(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		}

		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) IncrementItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Update("quantity", gorm.Expr("quantity + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// DecrementItem lowers the quantity by one and deletes the row instead of
// storing zero. deleted reports which of the two happened.
func (r *GormRepo) DecrementItem(ctx context.Context, userID, productID string) (item *models.CartItem, deleted bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ? AND quantity > 1", userID, productID).
			Update("quantity", gorm.Expr("quantity - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			var it models.CartItem
			if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&it).Error; err != nil {
				return err
			}
			item = &it
			return nil
		}

		res = tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		deleted = true
		return nil
	})
	if err != nil {
		return nil, false, notFound(err)
	}
	return item, deleted, nil
}

func (r *GormRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
