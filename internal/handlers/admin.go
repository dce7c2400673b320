// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the storefront gateway.
// Handlers are grouped by concern (public, auth, admin) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"toolstore/internal/api"
	"toolstore/internal/catalog"
	"toolstore/internal/middleware"
	"toolstore/internal/models"
)

// Admin groups the back-office handlers. Every route requires a session;
// writes carry its token to the backend.
type Admin struct {
	client   *api.Client
	resolver *catalog.Resolver
	sessions SessionStore
}

// NewAdmin creates the admin handler group.
func NewAdmin(client *api.Client, resolver *catalog.Resolver, sessions SessionStore) *Admin {
	return &Admin{client: client, resolver: resolver, sessions: sessions}
}

// fail answers err. A backend Unauthorized ends the session and sends the
// client to the login page instead of reporting an error.
func (a *Admin) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		a.expire(w, r)
		return
	}
	var verr *validationError
	if errors.As(err, &verr) {
		writeValidationError(w, err)
		return
	}
	fail(w, r, err)
}

// expire clears the session after the backend rejected its token.
func (a *Admin) expire(w http.ResponseWriter, r *http.Request) {
	slog.Info("backend rejected session token, logging out",
		"path", r.URL.Path,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
	)
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Dashboard answers the record counts of every collection, fetched
// concurrently.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	var counts struct {
		Products       int `json:"products"`
		Categories     int `json:"categories"`
		Articles       int `json:"articles"`
		Catalogues     int `json:"catalogues"`
		ServiceCenters int `json:"serviceCenters"`
	}

	g, ctx := errgroup.WithContext(r.Context())
	count := func(dst *int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			*dst = n
			return err
		})
	}
	count(&counts.Products, a.client.Products.Count)
	count(&counts.Categories, a.client.Categories.Count)
	count(&counts.Articles, a.client.Articles.Count)
	count(&counts.Catalogues, a.client.Catalogues.Count)
	count(&counts.ServiceCenters, a.client.ServiceCenters.Count)

	if err := g.Wait(); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// ParentOptions answers the tree picker for the category editor, without
// the category named by ?exclude= and its subtree.
func (a *Admin) ParentOptions(w http.ResponseWriter, r *http.Request) {
	tree, err := a.resolver.FetchTree(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	exclude := models.ID(r.URL.Query().Get("exclude"))
	writeJSON(w, http.StatusOK, map[string]any{
		"options": catalog.BuildParentOptionsExcluding(tree, exclude),
	})
}

// ---------- Categories ----------

// CategoryList answers the flat category list.
func (a *Admin) CategoryList(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, a.client.Categories.List)
}

// CategoryCreate creates a category under a validated parent.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	mutate(a, w, r, &in, http.StatusCreated, func(ctx context.Context, token string) (*models.Category, error) {
		if err := a.checkParent(ctx, "", in.ParentID); err != nil {
			return nil, err
		}
		created, err := a.client.Categories.Create(ctx, token, in)
		if err == nil {
			a.resolver.Invalidate(ctx)
		}
		return created, err
	})
}

// CategoryUpdate edits a category. Its new parent must not be itself or
// one of its descendants.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var in categoryInput
	mutate(a, w, r, &in, http.StatusOK, func(ctx context.Context, token string) (*models.Category, error) {
		if err := a.checkParent(ctx, id, in.ParentID); err != nil {
			return nil, err
		}
		updated, err := a.client.Categories.Update(ctx, token, id, in)
		if err == nil {
			a.resolver.Invalidate(ctx)
		}
		return updated, err
	})
}

// CategoryDelete removes a category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, func(ctx context.Context, token string, id models.ID) error {
		err := a.client.Categories.Delete(ctx, token, id)
		if err == nil {
			a.resolver.Invalidate(ctx)
		}
		return err
	})
}

// checkParent validates parentID against a fresh tree.
func (a *Admin) checkParent(ctx context.Context, id models.ID, parentID *models.ID) error {
	if parentID == nil {
		return nil
	}
	a.resolver.Invalidate(ctx)
	tree, err := a.resolver.FetchTree(ctx)
	if err != nil {
		return err
	}
	return tree.ValidateParent(id, *parentID)
}

// ---------- Products ----------

// ProductList answers all products.
func (a *Admin) ProductList(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, a.client.Products.List)
}

// ProductCreate creates a product.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	var in productInput
	mutate(a, w, r, &in, http.StatusCreated, func(ctx context.Context, token string) (*models.Product, error) {
		return a.client.Products.Create(ctx, token, in)
	})
}

// ProductUpdate edits a product.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var in productInput
	mutate(a, w, r, &in, http.StatusOK, func(ctx context.Context, token string) (*models.Product, error) {
		return a.client.Products.Update(ctx, token, id, in)
	})
}

// ProductDelete removes a product.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.client.Products.Delete)
}

// ---------- Articles ----------

// ArticleList answers all articles.
func (a *Admin) ArticleList(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, a.client.Articles.List)
}

// ArticleCreate creates an article.
func (a *Admin) ArticleCreate(w http.ResponseWriter, r *http.Request) {
	var in articleInput
	mutate(a, w, r, &in, http.StatusCreated, func(ctx context.Context, token string) (*models.Article, error) {
		return a.client.Articles.Create(ctx, token, in)
	})
}

// ArticleUpdate edits an article.
func (a *Admin) ArticleUpdate(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var in articleInput
	mutate(a, w, r, &in, http.StatusOK, func(ctx context.Context, token string) (*models.Article, error) {
		return a.client.Articles.Update(ctx, token, id, in)
	})
}

// ArticleDelete removes an article.
func (a *Admin) ArticleDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.client.Articles.Delete)
}

// ---------- Catalogues ----------

// CatalogueList answers all catalogues.
func (a *Admin) CatalogueList(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, a.client.Catalogues.List)
}

// CatalogueCreate creates a catalogue.
func (a *Admin) CatalogueCreate(w http.ResponseWriter, r *http.Request) {
	var in catalogueInput
	mutate(a, w, r, &in, http.StatusCreated, func(ctx context.Context, token string) (*models.Catalogue, error) {
		return a.client.Catalogues.Create(ctx, token, in)
	})
}

// CatalogueUpdate edits a catalogue.
func (a *Admin) CatalogueUpdate(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var in catalogueInput
	mutate(a, w, r, &in, http.StatusOK, func(ctx context.Context, token string) (*models.Catalogue, error) {
		return a.client.Catalogues.Update(ctx, token, id, in)
	})
}

// CatalogueDelete removes a catalogue.
func (a *Admin) CatalogueDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.client.Catalogues.Delete)
}

// ---------- Service centers ----------

// ServiceCenterList answers all service centers.
func (a *Admin) ServiceCenterList(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, a.client.ServiceCenters.List)
}

// ServiceCenterCreate creates a service center.
func (a *Admin) ServiceCenterCreate(w http.ResponseWriter, r *http.Request) {
	var in serviceCenterInput
	mutate(a, w, r, &in, http.StatusCreated, func(ctx context.Context, token string) (*models.ServiceCenter, error) {
		return a.client.ServiceCenters.Create(ctx, token, in)
	})
}

// ServiceCenterUpdate edits a service center.
func (a *Admin) ServiceCenterUpdate(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var in serviceCenterInput
	mutate(a, w, r, &in, http.StatusOK, func(ctx context.Context, token string) (*models.ServiceCenter, error) {
		return a.client.ServiceCenters.Update(ctx, token, id, in)
	})
}

// ServiceCenterDelete removes a service center.
func (a *Admin) ServiceCenterDelete(w http.ResponseWriter, r *http.Request) {
	a.remove(w, r, a.client.ServiceCenters.Delete)
}

// ---------- Shared CRUD plumbing ----------

// list answers every record of a collection.
func list[T any](a *Admin, w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]T, error)) {
	items, err := fn(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// mutate decodes and validates in, then runs call with the session token.
// A call that returns no record answers 204.
func mutate[T any](a *Admin, w http.ResponseWriter, r *http.Request, in payload, status int, call func(ctx context.Context, token string) (*T, error)) {
	if err := decodeJSON(w, r, in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := check(in); err != nil {
		a.fail(w, r, err)
		return
	}

	out, err := call(r.Context(), middleware.TokenFromCtx(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	slog.Info("admin mutation", "method", r.Method, "path", r.URL.Path)
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, out)
}

// remove deletes the record named by the {id} route parameter.
func (a *Admin) remove(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, token string, id models.ID) error) {
	id := models.ID(chi.URLParam(r, "id"))
	if err := del(r.Context(), middleware.TokenFromCtx(r.Context()), id); err != nil {
		a.fail(w, r, err)
		return
	}
	slog.Info("admin delete", "path", r.URL.Path, "id", id)
	w.WriteHeader(http.StatusNoContent)
}
