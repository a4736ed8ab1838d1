package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/google/uuid"
)

func (r *FileRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.products.Put(ctx, *p)
}

func (r *FileRepo) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.products.Update(ctx, func(stored []models.Product) ([]models.Product, error) {
		index := make(map[string]int, len(stored))
		for i, p := range stored {
			index[p.ID] = i
		}
		for _, p := range products {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			if i, ok := index[p.ID]; ok {
				stored[i] = p
				continue
			}
			index[p.ID] = len(stored)
			stored = append(stored, p)
		}
		return stored, nil
	})
}

func (r *FileRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := r.products.Get(ctx, id)
	if err != nil {
		return nil, fileErr(err)
	}
	return &p, nil
}

func (r *FileRepo) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	found, err := r.products.Scan(ctx, func(p models.Product) bool {
		_, ok := want[p.ID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Product, len(found))
	for _, p := range found {
		out[p.ID] = p
	}
	return out, nil
}

func (r *FileRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	category := strings.ToUpper(f.Category)
	keyword := strings.ToLower(f.Keyword)

	products, err := r.products.Scan(ctx, func(p models.Product) bool {
		if f.Featured && !p.Featured {
			return false
		}
		if f.Discounted && p.Discount <= 0 {
			return false
		}
		if category != "" && p.Category() != category {
			return false
		}
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title), keyword) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Code != products[j].Code {
			return products[i].Code < products[j].Code
		}
		return products[i].ID < products[j].ID
	})
	if f.Limit > 0 && len(products) > f.Limit {
		products = products[:f.Limit]
	}
	return products, nil
}
