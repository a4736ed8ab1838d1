// Package service holds the business rules of the store: accounts, catalog
// reads, the per-user cart and the checkout/order state machine. Storage,
// locking, event and payment backends are passed in as interfaces.
package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/pkg/logging"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProductRepo interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	UpsertProducts(ctx context.Context, products []models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	ListProducts(ctx context.Context, f repo.ProductFilter) ([]models.Product, error)
}

type CartRepo interface {
	CartItems(ctx context.Context, userID string) ([]models.CartItem, error)
	AddOrIncrement(ctx context.Context, userID, productID string) (*models.CartItem, error)
	IncrementItem(ctx context.Context, userID, productID string) (*models.CartItem, error)
	DecrementItem(ctx context.Context, userID, productID string) (*models.CartItem, bool, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}

type OrderRepo interface {
	PlaceOrder(ctx context.Context, userID string, lines []models.OrderLine) error
	TransitionOrder(ctx context.Context, orderID string, from, to models.OrderStatus) (int, error)
	OrderLinesByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderLine, error)
	OrderLinesByUser(ctx context.Context, userID string) ([]models.OrderLine, error)
	OrderLinesByOrder(ctx context.Context, orderID string) ([]models.OrderLine, error)
}

// Store is everything a single backend provides.
type Store interface {
	UserRepo
	ProductRepo
	CartRepo
	OrderRepo
}

func requireUser(u models.AuthenticatedUser) error {
	if u.ID == "" {
		return fmt.Errorf("no authenticated user: %w", ErrUnauthenticated)
	}
	return nil
}

// publish sends an event and only logs a failure; the state change it
// describes has already been stored.
func publish(ctx context.Context, pub events.Publisher, topic, key string, event any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "key", key, "error", err)
	}
}
