package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/lock"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
)

type CartService struct {
	Carts    CartRepo
	Products ProductRepo
	Locker   lock.Locker
	Events   events.Publisher
	Now      func() time.Time
}

func (s *CartService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func cartLockKey(userID string) string {
	return "cart:" + userID
}

// lockUser takes the user's cart lock. Checkout takes the same lock.
func (s *CartService) lockUser(ctx context.Context, userID string) (lock.Unlock, error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	unlock, err := s.Locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		return nil, fmt.Errorf("lock cart of %s: %w", userID, err)
	}
	return unlock, nil
}

// checkProduct validates the id and makes sure the product exists.
func (s *CartService) checkProduct(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return err
	}
	return nil
}

func itemNotFound(productID string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	return err
}

func (s *CartService) mutate(ctx context.Context, user models.AuthenticatedUser, productID string, fn func() error) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if err := s.checkProduct(ctx, productID); err != nil {
		return err
	}
	unlock, err := s.lockUser(ctx, user.ID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// Add puts one unit of the product in the cart, creating the line if needed.
func (s *CartService) Add(ctx context.Context, user models.AuthenticatedUser, productID string) (*models.CartItem, error) {
	var item *models.CartItem
	err := s.mutate(ctx, user, productID, func() error {
		var err error
		item, err = s.Carts.AddOrIncrement(ctx, user.ID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.CartItemAdded, user.ID, productID, item.Quantity)
	return item, nil
}

func (s *CartService) Increase(ctx context.Context, user models.AuthenticatedUser, productID string) (*models.CartItem, error) {
	var item *models.CartItem
	err := s.mutate(ctx, user, productID, func() error {
		var err error
		item, err = s.Carts.IncrementItem(ctx, user.ID, productID)
		return itemNotFound(productID, err)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.CartItemIncreased, user.ID, productID, item.Quantity)
	return item, nil
}

// Decrease takes one unit away. A line that reaches zero is deleted and
// deleted is true; item is nil in that case.
func (s *CartService) Decrease(ctx context.Context, user models.AuthenticatedUser, productID string) (item *models.CartItem, deleted bool, err error) {
	err = s.mutate(ctx, user, productID, func() error {
		var err error
		item, deleted, err = s.Carts.DecrementItem(ctx, user.ID, productID)
		return itemNotFound(productID, err)
	})
	if err != nil {
		return nil, false, err
	}
	if deleted {
		s.emit(ctx, events.CartItemRemoved, user.ID, productID, 0)
	} else {
		s.emit(ctx, events.CartItemDecreased, user.ID, productID, item.Quantity)
	}
	return item, deleted, nil
}

func (s *CartService) Remove(ctx context.Context, user models.AuthenticatedUser, productID string) error {
	err := s.mutate(ctx, user, productID, func() error {
		return itemNotFound(productID, s.Carts.RemoveItem(ctx, user.ID, productID))
	})
	if err != nil {
		return err
	}
	s.emit(ctx, events.CartItemRemoved, user.ID, productID, 0)
	return nil
}

// List returns the user's cart joined with current product data. Items whose
// product no longer exists are left out.
func (s *CartService) List(ctx context.Context, user models.AuthenticatedUser) ([]models.CartLine, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	return s.list(ctx, user.ID)
}

func (s *CartService) list(ctx context.Context, userID string) ([]models.CartLine, error) {
	items, err := s.Carts.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{Product: p, Quantity: it.Quantity})
	}
	return lines, nil
}

func (s *CartService) Clear(ctx context.Context, user models.AuthenticatedUser) error {
	if err := requireUser(user); err != nil {
		return err
	}
	unlock, err := s.lockUser(ctx, user.ID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.Carts.ClearCart(ctx, user.ID); err != nil {
		return err
	}
	s.emit(ctx, events.CartCleared, user.ID, "", 0)
	return nil
}

func (s *CartService) emit(ctx context.Context, typ, userID, productID string, qty int) {
	publish(ctx, s.Events, events.TopicCart, userID, events.CartEvent{
		Type:      typ,
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		At:        s.now(),
	})
}
