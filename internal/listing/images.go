package listing

import (
	"strings"

	"toolstore/internal/models"
)

// NormalizeImageURL makes an image URL absolute. http and https URLs are
// kept, protocol-relative URLs get https, anything else is a path on the
// backend at baseURL. An empty URL stays empty. Applying it twice is the
// same as applying it once.
func NormalizeImageURL(baseURL, u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u, "/")
}

// NormalizeProduct returns a copy of p with absolute image URLs. The
// input's image slice is not modified.
func NormalizeProduct(baseURL string, p models.Product) models.Product {
	images := make([]models.ProductImage, len(p.ProductImages))
	for i, img := range p.ProductImages {
		img.URL = NormalizeImageURL(baseURL, img.URL)
		images[i] = img
	}
	p.ProductImages = images
	if p.ProductCategory == nil {
		p.ProductCategory = []models.ProductCategory{}
	}
	return p
}

// NormalizeProducts normalizes every product. The result is never nil.
func NormalizeProducts(baseURL string, products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = NormalizeProduct(baseURL, p)
	}
	return out
}
