package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/google/uuid"
)

func findItem(items []models.CartItem, userID, productID string) int {
	for i := range items {
		if items[i].UserID == userID && items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func missingItem(userID, productID string) error {
	return fmt.Errorf("cart item %s/%s: %w", userID, productID, ErrNotFound)
}

func (r *FileRepo) CartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	return r.carts.Scan(ctx, func(c models.CartItem) bool { return c.UserID == userID })
}

func (r *FileRepo) AddOrIncrement(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var out models.CartItem
	err := r.carts.Update(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		if i := findItem(items, userID, productID); i >= 0 {
			items[i].Quantity++
			out = items[i]
			return items, nil
		}
		out = models.CartItem{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
			CreatedAt: time.Now().UTC(),
		}
		return append(items, out), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *FileRepo) IncrementItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var out models.CartItem
	err := r.carts.Update(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findItem(items, userID, productID)
		if i < 0 {
			return nil, missingItem(userID, productID)
		}
		items[i].Quantity++
		out = items[i]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *FileRepo) DecrementItem(ctx context.Context, userID, productID string) (*models.CartItem, bool, error) {
	var (
		out     *models.CartItem
		deleted bool
	)
	err := r.carts.Update(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findItem(items, userID, productID)
		if i < 0 {
			return nil, missingItem(userID, productID)
		}
		if items[i].Quantity <= 1 {
			deleted = true
			return append(items[:i], items[i+1:]...), nil
		}
		items[i].Quantity--
		it := items[i]
		out = &it
		return items, nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, deleted, nil
}

func (r *FileRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	return r.carts.Update(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		i := findItem(items, userID, productID)
		if i < 0 {
			return nil, missingItem(userID, productID)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (r *FileRepo) ClearCart(ctx context.Context, userID string) error {
	return r.carts.Update(ctx, func(items []models.CartItem) ([]models.CartItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.UserID != userID {
				kept = append(kept, it)
			}
		}
		return kept, nil
	})
}
