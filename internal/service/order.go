package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/payment"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutLine is one line the client asks to pay for.
type CheckoutLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
}

// OrderService drives checkout and the pending/completed life of orders.
// Cart provides the cart snapshot and the per-user lock shared with cart
// mutations.
type OrderService struct {
	Users    UserRepo
	Orders   OrderRepo
	Cart     *CartService
	Payments payment.Gateway
	Events   events.Publisher

	// PublicURL is the externally reachable base of this API. The payment
	// provider sends the buyer back to PublicURL/cart/payment-success.
	PublicURL string
	CancelURL string

	Now   func() time.Time
	NewID func() string
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *OrderService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *OrderService) successURL(userID string) string {
	return strings.TrimRight(s.PublicURL, "/") + "/cart/payment-success?userId=" + url.QueryEscape(userID)
}

// InitiateCheckout opens a payment session for lines and returns the URL the
// buyer has to be sent to.
func (s *OrderService) InitiateCheckout(ctx context.Context, user models.AuthenticatedUser, lines []CheckoutLine) (string, error) {
	if err := requireUser(user); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("no items to check out: %w", ErrValidation)
	}

	items := make([]payment.Line, 0, len(lines))
	for i, l := range lines {
		switch {
		case strings.TrimSpace(l.Name) == "":
			return "", fmt.Errorf("item %d: name required: %w", i, ErrValidation)
		case l.Quantity <= 0:
			return "", fmt.Errorf("item %d: quantity must be > 0: %w", i, ErrValidation)
		case l.Price.IsNegative():
			return "", fmt.Errorf("item %d: price must be >= 0: %w", i, ErrValidation)
		}
		items = append(items, payment.Line{Name: l.Name, UnitPrice: l.Price, Quantity: l.Quantity})
	}

	sess, err := s.Payments.CreateSession(ctx, items, s.successURL(user.ID), s.CancelURL)
	if err != nil {
		return "", fmt.Errorf("create payment session: %v: %w", err, ErrUpstream)
	}
	return sess.URL, nil
}

// OnPaymentSuccess turns the user's cart into one pending order and empties
// the cart. Calling it twice for the same paid cart is not detected; an empty
// cart produces an order with no lines.
func (s *OrderService) OnPaymentSuccess(ctx context.Context, userID string) (string, []models.OrderLine, error) {
	l := logging.FromContext(ctx).With("svc", "order.payment_success", "user_id", userID)

	if userID == "" {
		return "", nil, fmt.Errorf("user id required: %w", ErrUnauthenticated)
	}
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil, fmt.Errorf("user %s: %w", userID, ErrUnauthenticated)
		}
		return "", nil, err
	}

	orderID, date := s.newID(), s.now()
	lines, err := s.placeOrder(ctx, userID, orderID, date)
	if err != nil {
		return "", nil, err
	}

	l.Info("order_created", "order_id", orderID, "lines", len(lines))
	publish(ctx, s.Events, events.TopicOrder, orderID, events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: orderID,
		UserID:  userID,
		Lines:   len(lines),
		At:      date,
	})
	return orderID, lines, nil
}

// placeOrder snapshots the cart into pending lines and clears it while holding
// the user's cart lock.
func (s *OrderService) placeOrder(ctx context.Context, userID, orderID string, date time.Time) ([]models.OrderLine, error) {
	unlock, err := s.Cart.lockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cart, err := s.Cart.list(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(cart))
	for _, c := range cart {
		lines = append(lines, models.OrderLine{
			ID:        s.newID(),
			UserID:    userID,
			ProductID: c.Product.ID,
			Title:     c.Title,
			Price:     c.Price,
			Quantity:  c.Quantity,
			OrderID:   orderID,
			Date:      date,
			Status:    models.OrderStatusPending,
		})
	}

	if err := s.Orders.PlaceOrder(ctx, userID, lines); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return lines, nil
}

// MarkOrderCompleted moves the pending lines of orderID to completed and
// returns how many changed. An unknown order id changes nothing.
func (s *OrderService) MarkOrderCompleted(ctx context.Context, orderID string) (int, error) {
	return s.transition(ctx, orderID, models.OrderStatusPending, models.OrderStatusCompleted, events.OrderCompleted)
}

// RevertOrderToPending moves the completed lines of orderID back to pending.
func (s *OrderService) RevertOrderToPending(ctx context.Context, orderID string) (int, error) {
	return s.transition(ctx, orderID, models.OrderStatusCompleted, models.OrderStatusPending, events.OrderReverted)
}

func (s *OrderService) transition(ctx context.Context, orderID string, from, to models.OrderStatus, eventType string) (int, error) {
	if strings.TrimSpace(orderID) == "" {
		return 0, fmt.Errorf("order id required: %w", ErrValidation)
	}

	n, err := s.Orders.TransitionOrder(ctx, orderID, from, to)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	publish(ctx, s.Events, events.TopicOrder, orderID, events.OrderEvent{
		Type:    eventType,
		OrderID: orderID,
		Lines:   n,
		At:      s.now(),
	})
	return n, nil
}

// Order returns every line of one order.
func (s *OrderService) Order(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	lines, err := s.Orders.OrderLinesByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return lines, nil
}

func (s *OrderService) ListPending(ctx context.Context) ([]models.OrderLine, error) {
	return s.Orders.OrderLinesByStatus(ctx, models.OrderStatusPending)
}

func (s *OrderService) ListCompleted(ctx context.Context) ([]models.OrderLine, error) {
	return s.Orders.OrderLinesByStatus(ctx, models.OrderStatusCompleted)
}

func (s *OrderService) ListForUser(ctx context.Context, user models.AuthenticatedUser) ([]models.OrderLine, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	return s.Orders.OrderLinesByUser(ctx, user.ID)
}
