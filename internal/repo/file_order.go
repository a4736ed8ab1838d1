package repo

import (
	"context"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/google/uuid"
)

// PlaceOrder appends the lines to the order collection and then clears the
// user's cart. The two files are written one after the other; callers hold the
// user's cart lock so no cart mutation can slip in between.
func (r *FileRepo) PlaceOrder(ctx context.Context, userID string, lines []models.OrderLine) error {
	if len(lines) > 0 {
		err := r.orders.Update(ctx, func(stored []models.OrderLine) ([]models.OrderLine, error) {
			for _, l := range lines {
				if l.ID == "" {
					l.ID = uuid.NewString()
				}
				stored = append(stored, l)
			}
			return stored, nil
		})
		if err != nil {
			return err
		}
	}
	return r.ClearCart(ctx, userID)
}

func (r *FileRepo) TransitionOrder(ctx context.Context, orderID string, from, to models.OrderStatus) (int, error) {
	changed := 0
	err := r.orders.Update(ctx, func(stored []models.OrderLine) ([]models.OrderLine, error) {
		for i := range stored {
			if stored[i].OrderID == orderID && stored[i].Status == from {
				stored[i].Status = to
				changed++
			}
		}
		return stored, nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *FileRepo) OrderLinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error) {
	return r.orders.Scan(ctx, func(o models.OrderLine) bool { return o.Status == status })
}

func (r *FileRepo) OrderLinesByUser(ctx context.Context, userID string) ([]models.OrderLine, error) {
	return r.orders.Scan(ctx, func(o models.OrderLine) bool { return o.UserID == userID })
}

func (r *FileRepo) OrderLinesByOrder(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	return r.orders.Scan(ctx, func(o models.OrderLine) bool { return o.OrderID == orderID })
}
