package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/gamestore/internal/lock"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/payment"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *recorder) last() recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fakeGateway struct {
	lines      []payment.Line
	successURL string
	cancelURL  string
	err        error
}

func (g *fakeGateway) CreateSession(_ context.Context, lines []payment.Line, successURL, cancelURL string) (*payment.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lines, g.successURL, g.cancelURL = lines, successURL, cancelURL
	return &payment.Session{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil
}

type testEnv struct {
	Store   *repo.FileRepo
	Events  *recorder
	Gateway *fakeGateway
	Cart    *CartService
	Orders  *OrderService
	Auth    *AuthService
	Catalog *CatalogService
	Clock   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		Store:   repo.NewFileRepo(t.TempDir()),
		Events:  &recorder{},
		Gateway: &fakeGateway{},
		Clock:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return env.Clock }

	env.Cart = &CartService{
		Carts:    env.Store,
		Products: env.Store,
		Locker:   lock.NewLocal(),
		Events:   env.Events,
		Now:      now,
	}
	env.Orders = &OrderService{
		Users:     env.Store,
		Orders:    env.Store,
		Cart:      env.Cart,
		Payments:  env.Gateway,
		Events:    env.Events,
		PublicURL: "http://api.local/",
		CancelURL: "http://front.local/payment/failed",
		Now:       now,
	}
	env.Catalog = &CatalogService{Products: env.Store, Events: env.Events, Now: now}
	return env
}

func (env *testEnv) user(t *testing.T, email string) models.AuthenticatedUser {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Authorities: []string{models.RoleUser}}
	require.NoError(t, env.Store.CreateUser(context.Background(), u))
	return models.AuthenticatedUser{ID: u.ID, Email: u.Email, Roles: u.Authorities}
}

func (env *testEnv) product(t *testing.T, code, title, price string) models.Product {
	t.Helper()
	p := models.Product{Code: code, Title: title, Price: decimal.RequireFromString(price), Quantity: 10}
	require.NoError(t, env.Store.CreateProduct(context.Background(), &p))
	return p
}

var errBoom = errors.New("boom")
