// Package catalog loads the product list from the first readable candidate
// file and memoizes it for the lifetime of the process.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storefront/shop-api/internal/core/domain"
	"github.com/storefront/shop-api/internal/pkg/metrics"
)

// SourceFallback is reported by Source when no candidate file could be loaded.
const SourceFallback = "fallback"

// FileCatalog implements ports.Catalog.
type FileCatalog struct {
	paths []string
	log   zerolog.Logger

	once     sync.Once
	products []domain.Product
	source   string
}

func New(paths []string, log zerolog.Logger) *FileCatalog {
	return &FileCatalog{paths: paths, log: log}
}

// Products returns the cached list, loading it on first use. Callers must not
// modify the returned slice.
func (c *FileCatalog) Products(_ context.Context) []domain.Product {
	c.once.Do(c.load)
	return c.products
}

// Source reports the file the catalog was loaded from, or SourceFallback.
func (c *FileCatalog) Source() string {
	c.once.Do(c.load)
	return c.source
}

func (c *FileCatalog) load() {
	for _, path := range c.paths {
		products, err := readProducts(path)
		if err != nil {
			c.log.Debug().Err(err).Str("path", path).Msg("catalog candidate skipped")
			continue
		}
		c.products, c.source = products, path
		c.log.Info().Str("path", path).Int("products", len(products)).Msg("catalog loaded")
		metrics.CatalogProducts.WithLabelValues(path).Set(float64(len(products)))
		return
	}

	c.products, c.source = placeholder(), SourceFallback
	c.log.Warn().Strs("paths", c.paths).Msg("no catalog file found, serving placeholder product")
	metrics.CatalogProducts.WithLabelValues(SourceFallback).Set(1)
}

func readProducts(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return products, nil
}

func placeholder() []domain.Product {
	return []domain.Product{{
		ID:          1,
		Title:       "Sample Product",
		Price:       29.99,
		Description: "This is a sample product while we load the full catalog.",
		Category:    "men's clothing",
		Image:       "/assets/images/placeholder.png",
		Rating:      domain.Rating{Rate: 4.5, Count: 100},
	}}
}
