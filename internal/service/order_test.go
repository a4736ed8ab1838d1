package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/lock"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_InitiateCheckout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@example.com")

	url, err := env.Orders.InitiateCheckout(ctx, u, []CheckoutLine{
		{Name: "Elden Ring", Price: decimal.RequireFromString("59.99"), Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_1", url)
	assert.Equal(t, "http://api.local/cart/payment-success?userId="+u.ID, env.Gateway.successURL)
	assert.Equal(t, "http://front.local/payment/failed", env.Gateway.cancelURL)
	require.Len(t, env.Gateway.lines, 1)
	assert.Equal(t, int64(2), env.Gateway.lines[0].Quantity)
}

func TestOrderService_InitiateCheckoutErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@example.com")
	line := CheckoutLine{Name: "A", Price: decimal.NewFromInt(1), Quantity: 1}

	tests := []struct {
		name  string
		user  models.AuthenticatedUser
		lines []CheckoutLine
		want  error
	}{
		{"empty lines", u, nil, ErrValidation},
		{"unauthenticated", models.AuthenticatedUser{}, []CheckoutLine{line}, ErrUnauthenticated},
		{"zero quantity", u, []CheckoutLine{{Name: "A", Price: decimal.NewFromInt(1)}}, ErrValidation},
		{"negative price", u, []CheckoutLine{{Name: "A", Price: decimal.NewFromInt(-1), Quantity: 1}}, ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Orders.InitiateCheckout(ctx, tc.user, tc.lines)
			require.ErrorIs(t, err, tc.want)
		})
	}

	env.Gateway.err = errBoom
	_, err := env.Orders.InitiateCheckout(ctx, u, []CheckoutLine{line})
	require.ErrorIs(t, err, ErrUpstream)
}

func TestOrderService_PaymentSuccessScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "u@example.com")
	p1 := env.product(t, "PS5-001", "P1", "10")
	p2 := env.product(t, "PS5-002", "P2", "5")

	for _, id := range []string{p1.ID, p1.ID, p2.ID} {
		_, err := env.Cart.Add(ctx, u, id)
		require.NoError(t, err)
	}

	orderID, lines, err := env.Orders.OnPaymentSuccess(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)
	require.Len(t, lines, 2)

	stored, err := env.Orders.ListForUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byProduct := map[string]models.OrderLine{}
	for _, l := range stored {
		assert.Equal(t, orderID, l.OrderID)
		assert.Equal(t, models.OrderStatusPending, l.Status)
		assert.Equal(t, u.ID, l.UserID)
		assert.Equal(t, env.Clock, l.Date.UTC())
		byProduct[l.ProductID] = l
	}
	assert.True(t, decimal.NewFromInt(10).Equal(byProduct[p1.ID].Price))
	assert.Equal(t, 2, byProduct[p1.ID].Quantity)
	assert.Equal(t, "P1", byProduct[p1.ID].Title)
	assert.True(t, decimal.NewFromInt(5).Equal(byProduct[p2.ID].Price))
	assert.Equal(t, 1, byProduct[p2.ID].Quantity)
	assert.NotEqual(t, byProduct[p1.ID].ID, byProduct[p2.ID].ID)

	cart, err := env.Cart.List(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, cart)

	ev := env.Events.last()
	assert.Equal(t, events.TopicOrder, ev.Topic)
	assert.Equal(t, events.OrderCreated, ev.Event.(events.OrderEvent).Type)
}

func TestOrderService_PaymentSuccessSnapshotsPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "u@example.com")
	p := env.product(t, "PS5-001", "P1", "10")
	_, err := env.Cart.Add(ctx, u, p.ID)
	require.NoError(t, err)

	_, _, err = env.Orders.OnPaymentSuccess(ctx, u.ID)
	require.NoError(t, err)

	p.Price = decimal.NewFromInt(99)
	p.Title = "Renamed"
	require.NoError(t, env.Store.UpsertProducts(ctx, []models.Product{p}))

	stored, err := env.Orders.ListForUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "P1", stored[0].Title)
	assert.True(t, decimal.NewFromInt(10).Equal(stored[0].Price))
}

func TestOrderService_PaymentSuccessUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.Orders.OnPaymentSuccess(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = env.Orders.OnPaymentSuccess(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOrderService_PaymentSuccessEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "u@example.com")

	orderID, lines, err := env.Orders.OnPaymentSuccess(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, orderID)
	assert.Empty(t, lines)
}

func TestOrderService_CompleteAndRevert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "PS5-001", "P1", "10")

	var orderIDs []string
	for i := 0; i < 2; i++ {
		u := env.user(t, fmt.Sprintf("u%d@example.com", i))
		_, err := env.Cart.Add(ctx, u, p.ID)
		require.NoError(t, err)
		id, _, err := env.Orders.OnPaymentSuccess(ctx, u.ID)
		require.NoError(t, err)
		orderIDs = append(orderIDs, id)
	}

	before, err := env.Orders.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	n, err := env.Orders.MarkOrderCompleted(ctx, orderIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	completed, err := env.Orders.ListCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, orderIDs[0], completed[0].OrderID)

	pending, err := env.Orders.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, orderIDs[1], pending[0].OrderID)

	n, err = env.Orders.MarkOrderCompleted(ctx, orderIDs[0])
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = env.Orders.RevertOrderToPending(ctx, orderIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, events.OrderReverted, env.Events.last().Event.(events.OrderEvent).Type)

	after, err := env.Orders.ListPending(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, before, after)

	n, err = env.Orders.MarkOrderCompleted(ctx, "no-such-order")
	require.NoError(t, err)
	assert.Zero(t, n)

	lines, err := env.Orders.Order(ctx, orderIDs[1])
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	_, err = env.Orders.Order(ctx, "no-such-order")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.Orders.RevertOrderToPending(ctx, "")
	require.ErrorIs(t, err, ErrValidation)
}

// lockCheckingPublisher records whether the cart lock of user was free at
// publish time.
type lockCheckingPublisher struct {
	locker lock.Locker
	user   string
	free   []bool
}

func (p *lockCheckingPublisher) Publish(ctx context.Context, _, _ string, _ any) error {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	unlock, err := p.locker.Lock(ctx, cartLockKey(p.user))
	if err != nil {
		p.free = append(p.free, false)
		return nil
	}
	unlock()
	p.free = append(p.free, true)
	return nil
}

func TestOrderService_PaymentSuccessPublishesAfterUnlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.user(t, "a@example.com")
	p := env.product(t, "PS5001", "Elden Ring", "59.99")
	_, err := env.Cart.Add(ctx, u, p.ID)
	require.NoError(t, err)

	pub := &lockCheckingPublisher{locker: env.Cart.Locker, user: u.ID}
	env.Orders.Events = pub

	_, lines, err := env.Orders.OnPaymentSuccess(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, []bool{true}, pub.free)
}
