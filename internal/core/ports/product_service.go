package ports

import (
	"context"

	"github.com/storefront/shop-api/internal/core/domain"
)

// ProductFilter carries the optional catalog filters. Zero values disable a filter.
type ProductFilter struct {
	Category string   // case-insensitive exact match
	Search   string   // case-insensitive substring of title or description
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
}

// Catalog is the read-only product source.
type Catalog interface {
	Products(ctx context.Context) []domain.Product
	// Source names the file the catalog was loaded from, or "fallback".
	Source() string
}

type ProductService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}
