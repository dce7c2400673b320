// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ProductImage is one image attached to a product. The first image of a
// product is its primary image.
type ProductImage struct {
	ID  ID     `json:"id,omitempty"`
	URL string `json:"url"`
}

// CategoryRef is the slice of a Category carried by product join records.
type CategoryRef struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ProductCategory is a many-to-many join record between a product and a category.
type ProductCategory struct {
	ID         ID          `json:"id,omitempty"`
	CategoryID ID          `json:"categoryId,omitempty"`
	Category   CategoryRef `json:"category"`
}

// Product is a catalog item owned by the backend.
type Product struct {
	ID              ID                `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Description     string            `json:"description"`
	ProductImages   []ProductImage    `json:"productImages"`
	ProductCategory []ProductCategory `json:"productCategory"`
}

// PrimaryImage returns the URL of the first image, or "" when the product
// has none. Placeholder substitution is left to the presentation layer.
func (p *Product) PrimaryImage() string {
	if len(p.ProductImages) == 0 {
		return ""
	}
	return p.ProductImages[0].URL
}

// CategoryNames lists the names of the categories the product belongs to,
// in join-record order, skipping blanks.
func (p *Product) CategoryNames() []string {
	names := make([]string, 0, len(p.ProductCategory))
	for _, pc := range p.ProductCategory {
		if pc.Category.Name != "" {
			names = append(names, pc.Category.Name)
		}
	}
	return names
}
