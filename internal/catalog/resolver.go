package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"toolstore/internal/api"
	"toolstore/internal/models"
)

// TreeSource fetches the raw category tree payload.
type TreeSource interface {
	Tree(ctx context.Context) ([]models.CategoryNode, error)
}

// CategoryLookup resolves a single category by slug.
type CategoryLookup interface {
	BySlug(ctx context.Context, slug string) (*models.Category, error)
}

// TreeCache holds a normalized forest between fetches. Get reports a miss
// with ok=false.
type TreeCache interface {
	Get(ctx context.Context) (tree []models.CategoryNode, ok bool)
	Set(ctx context.Context, tree []models.CategoryNode)
	Invalidate(ctx context.Context)
}

// Resolver answers category questions against the backend.
type Resolver struct {
	tree   TreeSource
	lookup CategoryLookup
	cache  TreeCache // nil disables caching
}

// NewResolver creates a resolver. cache may be nil.
func NewResolver(tree TreeSource, lookup CategoryLookup, cache TreeCache) *Resolver {
	return &Resolver{tree: tree, lookup: lookup, cache: cache}
}

// FetchTree returns the normalized category forest. A backend failure is
// returned as is; callers render an empty tree in that case.
func (r *Resolver) FetchTree(ctx context.Context) (Forest, error) {
	if r.cache != nil {
		if tree, ok := r.cache.Get(ctx); ok {
			return Forest(tree), nil
		}
	}

	raw, err := r.tree.Tree(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch category tree: %w", err)
	}
	tree, _ := Normalize(raw)

	if r.cache != nil {
		r.cache.Set(ctx, tree)
	}
	return Forest(tree), nil
}

// Invalidate drops the cached tree, if any. Called after category writes.
func (r *Resolver) Invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	r.cache.Invalidate(ctx)
	slog.Debug("category tree cache invalidated")
}

// ResolveBySlugPath resolves a category route. Only the last segment is
// looked up; the leading segments are not checked against the tree, so
// /a/b and /x/b resolve to the same category.
func (r *Resolver) ResolveBySlugPath(ctx context.Context, slugs []string) (*models.Category, error) {
	if len(slugs) == 0 {
		return nil, fmt.Errorf("%w: empty category path", api.ErrInvalidArgument)
	}
	last := strings.TrimSpace(slugs[len(slugs)-1])
	if last == "" {
		return nil, fmt.Errorf("%w: empty category slug", api.ErrInvalidArgument)
	}
	return r.lookup.BySlug(ctx, last)
}
