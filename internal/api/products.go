package api

import (
	"context"
	"net/url"
	"strings"

	"toolstore/internal/models"
)

// ProductService covers /product listings on top of the shared CRUD.
// Results are raw: image URLs are not normalized here.
type ProductService struct {
	*Resource[models.Product]
}

// ByCategorySlug lists the products of a category and its descendants.
// The backend resolves descendants itself.
func (s *ProductService) ByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalidArgument("empty category slug")
	}
	return s.list(ctx, s.base+"/category/"+url.PathEscape(slug))
}

// Search runs a free-text product search. The query is percent-encoded
// into the path.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("empty search query")
	}
	return s.list(ctx, s.base+"/search/"+url.PathEscape(query))
}

// Latest lists the most recently added products.
func (s *ProductService) Latest(ctx context.Context) ([]models.Product, error) {
	return s.list(ctx, s.base+"/latest")
}

func (s *ProductService) list(ctx context.Context, path string) ([]models.Product, error) {
	products, err := get[[]models.Product](ctx, s.client, path)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
