package repo

import (
	"context"

	"github.com/Skotchmaster/gamestore/internal/models"
	"gorm.io/gorm"
)

// PlaceOrder stores the order lines and empties the user's cart in one transaction.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID string, lines []models.OrderLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
}

// TransitionOrder moves every line of orderID that is in status from to status to.
func (r *GormRepo) TransitionOrder(ctx context.Context, orderID string, from, to models.OrderStatus) (int, error) {
	res := r.DB.WithContext(ctx).Model(&models.OrderLine{}).
		Where("order_id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *GormRepo) OrderLinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.DB.WithContext(ctx).Where("status = ?", status).Order("date ASC, order_id ASC, id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) OrderLinesByUser(ctx context.Context, userID string) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("date ASC, order_id ASC, id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) OrderLinesByOrder(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
