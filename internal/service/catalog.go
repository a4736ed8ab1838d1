package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/pkg/logging"
	"github.com/google/uuid"
)

const (
	featuredLimit   = 12
	discountedLimit = 9
	categoryLimit   = 12
	searchLimit     = 8
)

// Searcher is a full text product index.
type Searcher interface {
	Index(ctx context.Context, p models.Product) error
	Search(ctx context.Context, query string, from, size int) ([]models.Product, error)
}

type CatalogService struct {
	Products ProductRepo
	Search   Searcher
	Events   events.Publisher
	Now      func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	return s.Products.ListProducts(ctx, repo.ProductFilter{Featured: true, Limit: featuredLimit})
}

func (s *CatalogService) Discounted(ctx context.Context) ([]models.Product, error) {
	return s.Products.ListProducts(ctx, repo.ProductFilter{Discounted: true, Limit: discountedLimit})
}

// ByCategory matches the three letter code prefix. "all" lists any product.
func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("category required: %w", ErrValidation)
	}
	if strings.EqualFold(category, "all") {
		return s.Products.ListProducts(ctx, repo.ProductFilter{Limit: categoryLimit})
	}
	return s.Products.ListProducts(ctx, repo.ProductFilter{Category: category, Limit: categoryLimit})
}

// SearchProducts asks the search index first and falls back to a title
// substring match in storage when there is no index or it fails.
func (s *CatalogService) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword required: %w", ErrValidation)
	}

	if s.Search != nil {
		found, err := s.Search.Search(ctx, keyword, 0, searchLimit)
		if err == nil {
			return found, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "keyword", keyword, "error", err)
	}
	return s.Products.ListProducts(ctx, repo.ProductFilter{Keyword: keyword, Limit: searchLimit})
}

func validateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("title required: %w", ErrValidation)
	case strings.TrimSpace(p.Code) == "":
		return fmt.Errorf("code required: %w", ErrValidation)
	case p.Price.IsNegative():
		return fmt.Errorf("price must be >= 0: %w", ErrValidation)
	case p.Quantity < 0:
		return fmt.Errorf("quantity must be >= 0: %w", ErrValidation)
	case p.Discount < 0:
		return fmt.Errorf("discount must be >= 0: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	p.ID = ""
	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.afterWrite(ctx, *p)
	return nil
}

// ImportProducts upserts products by id. Products without an id get a new one.
func (s *CatalogService) ImportProducts(ctx context.Context, products []models.Product) (int, error) {
	for i := range products {
		if err := validateProduct(&products[i]); err != nil {
			return 0, fmt.Errorf("product %d: %w", i, err)
		}
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
	}
	if err := s.Products.UpsertProducts(ctx, products); err != nil {
		return 0, err
	}
	for _, p := range products {
		s.afterWrite(ctx, p)
	}
	return len(products), nil
}

func (s *CatalogService) afterWrite(ctx context.Context, p models.Product) {
	if s.Search != nil {
		if err := s.Search.Index(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProduct, p.ID, events.ProductEvent{
		Type:      events.ProductCreated,
		ProductID: p.ID,
		Code:      p.Code,
		Title:     p.Title,
		At:        s.now(),
	})
}
