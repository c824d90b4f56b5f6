package service

import (
	"context"
	"strings"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/core/ports"
)

type ProductService struct {
	catalog ports.Catalog
}

func NewProductService(catalog ports.Catalog) *ProductService {
	return &ProductService{catalog: catalog}
}

// ListProducts returns the catalog entries matching every non-empty filter.
// The result is a fresh slice; the cached catalog is never modified.
func (s *ProductService) ListProducts(ctx context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	category := strings.ToLower(strings.TrimSpace(f.Category))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.Product, 0)
	for _, p := range s.catalog.Products(ctx) {
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.catalog.Products(ctx) {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrProductNotFound
}
