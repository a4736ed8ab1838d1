package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	indexed []string
	result  []models.Product
	err     error
}

func (f *fakeSearcher) Index(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeSearcher) Search(context.Context, string, int, int) ([]models.Product, error) {
	return f.result, f.err
}

func seedProducts(t *testing.T, env *testEnv, n int, mutate func(i int, p *models.Product)) {
	t.Helper()
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{
			Code:  fmt.Sprintf("PS5-%03d", i),
			Title: fmt.Sprintf("Game %d", i),
			Price: decimal.NewFromInt(int64(10 + i)),
		}
		if mutate != nil {
			mutate(i, &products[i])
		}
	}
	_, err := env.Catalog.ImportProducts(context.Background(), products)
	require.NoError(t, err)
}

func TestCatalogService_Limits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedProducts(t, env, 20, func(i int, p *models.Product) {
		p.Featured = true
		p.Discount = 5
		if i >= 15 {
			p.Code = fmt.Sprintf("XBX-%03d", i)
		}
	})

	featured, err := env.Catalog.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 12)

	discounted, err := env.Catalog.Discounted(ctx)
	require.NoError(t, err)
	assert.Len(t, discounted, 9)

	all, err := env.Catalog.ByCategory(ctx, "ALL")
	require.NoError(t, err)
	assert.Len(t, all, 12)

	xbox, err := env.Catalog.ByCategory(ctx, "xbx")
	require.NoError(t, err)
	assert.Len(t, xbox, 5)

	found, err := env.Catalog.SearchProducts(ctx, "game")
	require.NoError(t, err)
	assert.Len(t, found, 8)
}

func TestCatalogService_DiscountedNeedsPositiveDiscount(t *testing.T) {
	env := newTestEnv(t)
	seedProducts(t, env, 3, func(i int, p *models.Product) {
		if i == 1 {
			p.Discount = 15
		}
	})

	got, err := env.Catalog.Discounted(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Game 1", got[0].Title)
}

func TestCatalogService_SearchUsesIndexThenFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedProducts(t, env, 2, nil)

	s := &fakeSearcher{result: []models.Product{{ID: "x", Title: "From index"}}}
	env.Catalog.Search = s

	got, err := env.Catalog.SearchProducts(ctx, "anything")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "From index", got[0].Title)

	s.err = errBoom
	got, err = env.Catalog.SearchProducts(ctx, "GAME 1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Game 1", got[0].Title)

	_, err = env.Catalog.SearchProducts(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := &fakeSearcher{}
	env.Catalog.Search = s

	p := &models.Product{Code: "NSW-001", Title: "Zelda", Price: decimal.RequireFromString("59.99")}
	require.NoError(t, env.Catalog.CreateProduct(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.Equal(t, []string{p.ID}, s.indexed)

	ev := env.Events.last()
	assert.Equal(t, events.TopicProduct, ev.Topic)
	assert.Equal(t, p.ID, ev.Event.(events.ProductEvent).ProductID)

	err := env.Catalog.CreateProduct(ctx, &models.Product{Code: "X", Title: "", Price: decimal.Zero})
	require.ErrorIs(t, err, ErrValidation)
	err = env.Catalog.CreateProduct(ctx, &models.Product{Code: "X", Title: "Y", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrValidation)
}
