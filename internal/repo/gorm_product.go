package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/gamestore/internal/models"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// UpsertProducts inserts the given products, overwriting rows with the same id.
func (r *GormRepo) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&products).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Featured {
		q = q.Where("featured = ?", true)
	}
	if f.Discounted {
		q = q.Where("discount > 0")
	}
	if f.Category != "" {
		q = q.Where("UPPER(SUBSTR(code, 1, 3)) = ?", strings.ToUpper(f.Category))
	}
	if f.Keyword != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var products []models.Product
	if err := q.Order("code ASC, id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
