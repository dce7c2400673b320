// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"toolstore/internal/api"
	"toolstore/internal/catalog"
	"toolstore/internal/i18n"
	"toolstore/internal/listing"
	"toolstore/internal/markdown"
	"toolstore/internal/middleware"
	"toolstore/internal/models"
	"toolstore/internal/slug"
)

// staticPages are the informational pages served from the translation table.
var staticPages = map[string]bool{
	"contact":        true,
	"warranty":       true,
	"where-to-buy":   true,
	"service-center": true,
}

// Public groups the storefront handlers. None of them require a session.
type Public struct {
	client     *api.Client
	resolver   *catalog.Resolver
	products   *listing.Aggregator
	translator *i18n.Translator
	secure     bool
}

// NewPublic creates the storefront handler group. secure marks the
// language cookie HTTPS-only.
func NewPublic(client *api.Client, resolver *catalog.Resolver, products *listing.Aggregator, translator *i18n.Translator, secure bool) *Public {
	return &Public{
		client:     client,
		resolver:   resolver,
		products:   products,
		translator: translator,
		secure:     secure,
	}
}

// notices collects translated, non-blocking messages for the client.
type notices struct {
	tr   *i18n.Translator
	lang i18n.Lang
	list []string
}

func (n *notices) add(key string) {
	n.list = append(n.list, n.tr.T(n.lang, key))
}

func (n *notices) items() []string {
	if n.list == nil {
		return []string{}
	}
	return n.list
}

func (p *Public) notices(r *http.Request) *notices {
	return &notices{tr: p.translator, lang: middleware.LangFromCtx(r.Context())}
}

// Menu answers the category navigation menu. A failed tree fetch degrades
// to an empty menu with a notice.
func (p *Public) Menu(w http.ResponseWriter, r *http.Request) {
	n := p.notices(r)
	items := []catalog.MenuItem{}

	tree, err := p.resolver.FetchTree(r.Context())
	if err != nil {
		slog.Warn("menu tree fetch failed", "error", err, "request_id", middleware.RequestIDFromCtx(r.Context()))
		n.add("notice.menu_unavailable")
	} else {
		items = catalog.BuildNavigationMenu(tree, catalog.CategoryRoute)
		slog.Debug("menu built", "items", catalog.CountItems(items))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":   items,
		"notices": n.items(),
	})
}

// categoryPage is the body of a category page response. Every part is
// filled independently, so any of them may be missing.
type categoryPage struct {
	Category    *models.Category  `json:"category"`
	Breadcrumbs []catalog.Crumb   `json:"breadcrumbs"`
	Children    []models.Category `json:"children"`
	Products    []models.Product  `json:"products"`
	Notices     []string          `json:"notices"`
}

// CategoryPage answers /product-category/{slug...}. The category, its
// products and its subcategories are fetched concurrently and each
// failure becomes a notice instead of failing the page. Only the last
// path segment selects the category.
func (p *Public) CategoryPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugs := slug.Split(chi.URLParam(r, "*"))
	n := p.notices(r)

	if len(slugs) == 0 {
		n.add("notice.not_found")
		writeJSON(w, http.StatusNotFound, categoryPage{
			Breadcrumbs: []catalog.Crumb{},
			Children:    []models.Category{},
			Products:    []models.Product{},
			Notices:     n.items(),
		})
		return
	}
	last := slugs[len(slugs)-1]

	var (
		category    *models.Category
		categoryErr error
		products    []models.Product
		productsErr error
		children    []models.Category
		childrenErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		category, categoryErr = p.resolver.ResolveBySlugPath(ctx, slugs)
		return nil
	})
	g.Go(func() error {
		products, productsErr = p.products.ByCategorySlug(ctx, last)
		return nil
	})
	g.Go(func() error {
		children, childrenErr = p.client.Categories.Children(ctx, last)
		return nil
	})
	// Each fetch keeps its own error; the group never fails.
	_ = g.Wait()

	// The client went away; drop the results.
	if ctx.Err() != nil {
		return
	}

	page := categoryPage{
		Category:    category,
		Breadcrumbs: catalog.Breadcrumbs(slugs),
		Children:    children,
		Products:    products,
	}
	status := http.StatusOK

	switch {
	case categoryErr == nil:
		page.Breadcrumbs[len(page.Breadcrumbs)-1].Label = category.Name
	case errors.Is(categoryErr, api.ErrNotFound):
		status = http.StatusNotFound
		n.add("notice.not_found")
	default:
		slog.Warn("category fetch failed", "slug", last, "error", categoryErr)
		n.add("notice.category_unavailable")
	}
	if productsErr != nil {
		slog.Warn("category products fetch failed", "slug", last, "error", productsErr)
		if status == http.StatusOK {
			n.add("notice.products_unavailable")
		}
	}
	if childrenErr != nil {
		slog.Debug("category children fetch failed", "slug", last, "error", childrenErr)
	}

	if page.Products == nil {
		page.Products = []models.Product{}
	}
	if page.Children == nil {
		page.Children = []models.Category{}
	}
	page.Notices = n.items()
	writeJSON(w, status, page)
}

// LatestProducts answers the newest products, optionally limited by ?limit=.
func (p *Public) LatestProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	products, err := p.products.Latest(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// SearchProducts answers ?q= searches. A blank query is an empty result.
func (p *Public) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	products, err := p.products.Search(r.Context(), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "products": products})
}

// Product answers one product by id.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	product, err := p.products.ByID(r.Context(), models.ID(chi.URLParam(r, "id")))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productView{
		Product:       *product,
		PrimaryImage:  product.PrimaryImage(),
		CategoryNames: product.CategoryNames(),
	})
}

// productView is a product with the fields a product page shows first.
type productView struct {
	models.Product
	PrimaryImage  string   `json:"primaryImage"`
	CategoryNames []string `json:"categoryNames"`
}

// Blog lists the articles.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	articles, err := p.client.Articles.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// Article answers one article by id.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	article, err := p.client.Articles.Get(r.Context(), models.ID(chi.URLParam(r, "id")))
	if err != nil {
		fail(w, r, err)
		return
	}
	article.ImageURL = listing.NormalizeImageURL(p.client.BaseURL(), article.ImageURL)

	view := articleView{Article: *article}
	if view.ContentHTML, err = markdown.ToHTML(article.Content); err != nil {
		slog.Warn("article render failed", "id", article.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, view)
}

// articleView is an article with its body rendered for display.
type articleView struct {
	models.Article
	ContentHTML string `json:"contentHtml"`
}

// Catalogues lists the downloadable catalogues.
func (p *Public) Catalogues(w http.ResponseWriter, r *http.Request) {
	catalogues, err := p.client.Catalogues.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	base := p.client.BaseURL()
	for i := range catalogues {
		catalogues[i].FileURL = listing.NormalizeImageURL(base, catalogues[i].FileURL)
		catalogues[i].ImageURL = listing.NormalizeImageURL(base, catalogues[i].ImageURL)
	}
	writeJSON(w, http.StatusOK, map[string]any{"catalogues": catalogues})
}

// ServiceCenters lists the service centers.
func (p *Public) ServiceCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := p.client.ServiceCenters.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"serviceCenters": centers})
}

// StaticPage answers an informational page from the translation table.
func (p *Public) StaticPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !staticPages[name] {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	lang := middleware.LangFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  name,
		"lang":  lang,
		"title": p.translator.T(lang, "pages."+name+".title"),
		"body":  p.translator.T(lang, "pages."+name+".body"),
	})
}

// Translations answers the active language and its full table.
func (p *Public) Translations(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LangFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"lang":      lang,
		"supported": i18n.Supported,
		"table":     p.translator.Table(lang),
	})
}

// SetLanguage persists the chosen language. It never calls the backend.
func (p *Public) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Lang string `json:"lang"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		in.Lang = r.FormValue("lang")
	}

	lang, ok := i18n.Parse(in.Lang)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported language")
		return
	}
	middleware.SetLanguage(w, lang, p.secure)
	writeJSON(w, http.StatusOK, map[string]any{"lang": lang})
}
