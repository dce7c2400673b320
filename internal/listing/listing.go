// Package listing fetches product lists for the storefront and normalizes
// them into a renderable shape.
package listing

import (
	"context"
	"fmt"
	"strings"

	"toolstore/internal/models"
)

// ProductSource is the backend surface the aggregator reads from.
type ProductSource interface {
	ByCategorySlug(ctx context.Context, slug string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Latest(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id models.ID) (*models.Product, error)
}

// Aggregator returns products with absolute image URLs. It never retries;
// a failed fetch is returned to the caller.
type Aggregator struct {
	source  ProductSource
	baseURL string
}

// New creates an aggregator resolving relative image URLs against baseURL.
func New(source ProductSource, baseURL string) *Aggregator {
	return &Aggregator{source: source, baseURL: strings.TrimRight(baseURL, "/")}
}

// ByCategorySlug lists the products of a category and its descendants.
// The backend decides which descendants count. An empty category is an
// empty list.
func (a *Aggregator) ByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	products, err := a.source.ByCategorySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("products for category %q: %w", slug, err)
	}
	return NormalizeProducts(a.baseURL, products), nil
}

// Search runs a free-text search. A blank query returns an empty list
// without reaching the backend.
func (a *Aggregator) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	products, err := a.source.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", query, err)
	}
	return NormalizeProducts(a.baseURL, products), nil
}

// Latest lists the newest products, truncated to limit when limit > 0.
func (a *Aggregator) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	products, err := a.source.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest products: %w", err)
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return NormalizeProducts(a.baseURL, products), nil
}

// ByID returns one product.
func (a *Aggregator) ByID(ctx context.Context, id models.ID) (*models.Product, error) {
	p, err := a.source.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", id, err)
	}
	out := NormalizeProduct(a.baseURL, *p)
	return &out, nil
}
