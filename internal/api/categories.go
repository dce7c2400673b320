// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"toolstore/internal/models"
)

// CategoryService covers /category: the flat list, the tree, and the
// slug lookups, on top of the shared CRUD.
type CategoryService struct {
	*Resource[models.Category]
}

// Tree returns the raw category tree payload. The payload is untrusted and
// may be flat; see catalog.Normalize.
func (s *CategoryService) Tree(ctx context.Context) ([]models.CategoryNode, error) {
	nodes, err := get[[]models.CategoryNode](ctx, s.client, s.base+"/tree")
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []models.CategoryNode{}
	}
	return nodes, nil
}

// BySlug returns the single category with the given slug. Several matches
// mean the backend allowed a duplicate slug, which is rejected as
// ErrMalformedTree rather than picking one.
func (s *CategoryService) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalidArgument("empty category slug")
	}

	path := s.base + "/by/" + url.PathEscape(slug)
	body, err := s.client.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	matches, err := unwrapOneOrMany[models.Category](body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	var found []models.Category
	for _, m := range matches {
		if !m.ID.IsZero() {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("category %q: %w", slug, ErrNotFound)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: slug %q matches %d categories", ErrMalformedTree, slug, len(found))
	}
}

// Children returns the direct subcategories of the category with the given slug.
func (s *CategoryService) Children(ctx context.Context, slug string) ([]models.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalidArgument("empty category slug")
	}
	children, err := get[[]models.Category](ctx, s.client, s.base+"/by/"+url.PathEscape(slug)+"/children")
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []models.Category{}
	}
	return children, nil
}
