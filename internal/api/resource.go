package api

import (
	"context"
	"net/http"
	"net/url"

	"toolstore/internal/models"
)

// Resource is the CRUD surface shared by every backend collection:
// anonymous reads, bearer-token writes.
type Resource[T any] struct {
	client *Client
	base   string
}

func newResource[T any](c *Client, base string) *Resource[T] {
	return &Resource[T]{client: c, base: base}
}

// List returns every record of the collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	items, err := get[[]T](ctx, r.client, r.base)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Count returns the number of records in the collection.
func (r *Resource[T]) Count(ctx context.Context) (int, error) {
	items, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Get returns a single record by id.
func (r *Resource[T]) Get(ctx context.Context, id models.ID) (*T, error) {
	if id.IsZero() {
		return nil, invalidArgument("%s: empty id", r.base)
	}
	item, err := get[T](ctx, r.client, r.itemPath(id))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts a new record and returns the backend's copy of it.
func (r *Resource[T]) Create(ctx context.Context, token string, in any) (*T, error) {
	return send[T](ctx, r.client, http.MethodPost, r.base, token, in)
}

// Update patches an existing record.
func (r *Resource[T]) Update(ctx context.Context, token string, id models.ID, in any) (*T, error) {
	if id.IsZero() {
		return nil, invalidArgument("%s: empty id", r.base)
	}
	return send[T](ctx, r.client, http.MethodPatch, r.itemPath(id), token, in)
}

// Delete removes a record.
func (r *Resource[T]) Delete(ctx context.Context, token string, id models.ID) error {
	if id.IsZero() {
		return invalidArgument("%s: empty id", r.base)
	}
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), token, nil)
	return err
}

func (r *Resource[T]) itemPath(id models.ID) string {
	return r.base + "/" + url.PathEscape(id.String())
}
