package service

import (
	"context"
	"fmt"
	"time"

	"petstore/internal/core/cache"
	"petstore/internal/domain"
)

const (
	catalogCacheTTL   = 5 * time.Minute
	keyCategories     = "catalog:categories"
	keyProductPrefix  = "catalog:product:"
	LowStockThreshold = 5
)

// Catalog serves the storefront browse pages. Category and product-detail
// reads go through redis; filtered listings change too often to cache.
type Catalog struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      *cache.Cache
}

func NewCatalog(products domain.ProductRepository, categories domain.CategoryRepository, c *cache.Cache) *Catalog {
	return &Catalog{products: products, categories: categories, cache: c}
}

type categoryList struct {
	Items []domain.Category `json:"items"`
}

func (s *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	v, err := cache.GetOrLoadJSON(s.cache, ctx, keyCategories, catalogCacheTTL, func(ctx context.Context) (*categoryList, error) {
		items, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		return &categoryList{Items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.Items, nil
}

func (s *Catalog) Products(ctx context.Context, f domain.ProductFilter, page, size int) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.products.List(ctx, f, (page-1)*size, size)
}

func (s *Catalog) Product(ctx context.Context, id uint) (*domain.Product, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, productKey(id), catalogCacheTTL, func(ctx context.Context) (*domain.Product, error) {
		return s.products.FindByID(ctx, id)
	})
}

// InvalidateProduct is called by the back office after a catalog write.
func (s *Catalog) InvalidateProduct(ctx context.Context, id uint) {
	s.cache.Invalidate(ctx, productKey(id), keyCategories)
}

func productKey(id uint) string { return fmt.Sprintf("%s%d", keyProductPrefix, id) }
